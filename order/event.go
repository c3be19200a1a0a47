package order

const TopicOrderSaved = "order_saved"

// SavedEvent is published after every successful order save.
type SavedEvent struct {
	ID      int64 `json:"id"`
	State   State `json:"state"`
	DueDate Date  `json:"dueDate"`
}

func (o *Order) SavedEvent() SavedEvent {
	return SavedEvent{ID: o.ID, State: o.State, DueDate: o.DueDate}
}
