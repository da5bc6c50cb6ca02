package domain

import "time"

// Типы событий timeline заказа.
const (
	TimelineEventOrderOpened   = "OrderOpened"
	TimelineEventOrderFinished = "OrderFinished"
	TimelineEventOrderCanceled = "OrderCanceled"
	TimelineEventCommentAdded  = "CommentAdded"
)

// TimelineEvent — запись жизненного цикла заказа.
type TimelineEvent struct {
	ID        string
	OrderID   int64
	Type      string
	Reason    string
	CreatedAt time.Time
}
