package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/soms/internal/dto"
)

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func (s *Server) createCustomer(c *gin.Context) {
	var in dto.CreateCustomer
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	customer, err := s.customers.Create(in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (s *Server) listCustomers(c *gin.Context) {
	customers, err := s.customers.List()
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

func (s *Server) getCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	customer, err := s.customers.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (s *Server) updateCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var in dto.UpdateCustomer
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	customer, err := s.customers.Update(id, in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (s *Server) deleteCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := s.customers.Delete(id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
