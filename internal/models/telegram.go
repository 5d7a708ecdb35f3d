package models

import "time"

// IncomingMessage - входящее сообщение пользователя из Telegram.
type IncomingMessage struct {
	ChatID    int64
	Text      string
	Username  string
	FirstName string
	// ContactPhone заполнен, когда пользователь поделился контактом
	// кнопкой "Поделиться номером".
	ContactPhone string
}

// CallbackQuery - нажатие на inline-кнопку.
type CallbackQuery struct {
	ID        string
	UserID    int64
	UserName  string
	UserLogin string
	MessageID int
	ChatID    int64
	Data      string
}

// AdminThread - топик пользователя в админ-группе. Создается при первом
// обращении, дальше сообщения дописываются в него же.
type AdminThread struct {
	UserID              int64     `db:"user_id" json:"user_id"`
	ThreadID            int       `db:"thread_id" json:"thread_id"`
	UserName            string    `db:"user_name" json:"user_name"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	LastClientMessageAt time.Time `db:"last_client_message_at" json:"last_client_message_at"`
	NudgeSent           bool      `db:"nudge_sent" json:"nudge_sent"`
}
