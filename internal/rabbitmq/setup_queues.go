package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// PasswordResetQueue — очередь писем восстановления пароля.
const PasswordResetQueue = "mail.password_reset"

func GetMailQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: PasswordResetQueue, RoutingKey: "password_reset"},
	}
}
