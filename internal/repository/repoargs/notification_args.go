package repoargs

// CreateNotification с нулевым UserID создает глобальное уведомление.
type CreateNotification struct {
	UserID  int64
	Title   string
	Message string
}
