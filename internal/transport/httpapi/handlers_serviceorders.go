package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/soms/internal/dto"
)

func (s *Server) createServiceOrder(c *gin.Context) {
	var in dto.CreateServiceOrder
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	order, err := s.orders.Create(in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (s *Server) listServiceOrders(c *gin.Context) {
	orders, err := s.orders.GetAll()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (s *Server) getServiceOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := s.orders.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (s *Server) finishServiceOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := s.orders.Finish(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (s *Server) cancelServiceOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := s.orders.Cancel(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (s *Server) addServiceOrderComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in dto.CreateComment
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	comment, err := s.orders.AddComment(id, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (s *Server) serviceOrderTimeline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	events, err := s.orders.Timeline(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}
