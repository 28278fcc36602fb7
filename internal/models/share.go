package models

import "time"

// Статусы жизненного цикла заявки на шаринг кладовой.
// Pending — начальный статус, остальные два — терминальные.
const (
	ShareStatusPending  = "pending"
	ShareStatusAccepted = "accepted"
	ShareStatusRejected = "rejected"
)

// Уровни доступа, запрашиваемые заявкой.
const (
	SharePermissionView = "view"
	SharePermissionEdit = "edit"
)

// ShareRequest представляет заявку одного пользователя на доступ
// к кладовой другого. Получатель адресуется по username, а не по uid:
// заявка резолвится в текущего владельца имени в момент чтения.
// ToEmail — снапшот почты получателя на момент создания, не источник истины.
type ShareRequest struct {
	ID          string     `json:"id"`
	FromUserUID string     `json:"from_user_id"`
	ToUsername  string     `json:"to_username"`
	ToEmail     string     `json:"to_email"`
	Status      string     `json:"status"`
	Permission  string     `json:"permission"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ReceivedShareView — входящая заявка, обогащённая актуальными данными
// отправителя и человекочитаемым возрастом заявки.
type ReceivedShareView struct {
	ID           string `json:"id"`
	FromUserUID  string `json:"from_user_id"`
	FromUsername string `json:"from_username"`
	FromEmail    string `json:"from_email"`
	ToUsername   string `json:"to_username"`
	Status       string `json:"status"`
	Permission   string `json:"permission"`
	TimeAgo      string `json:"time_ago"`
	CreatedAt    string `json:"created_at"`
}

// SharedWithEntry — пользователь, открывший доступ к своей кладовой.
type SharedWithEntry struct {
	UserUID    string `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Permission string `json:"permission"`
	SharedAt   string `json:"shared_at"`
}
