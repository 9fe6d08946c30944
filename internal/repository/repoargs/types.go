package repoargs

type RepositoryName string

const (
	UserRepoName               RepositoryName = "user"
	VIPLevelRepoName           RepositoryName = "vip_level"
	CategoryRepoName           RepositoryName = "category"
	ProductRepoName            RepositoryName = "product"
	PaymentMethodRepoName      RepositoryName = "payment_method"
	PaymentTransactionRepoName RepositoryName = "payment_transaction"
	OrderRepoName              RepositoryName = "order"
	NotificationRepoName       RepositoryName = "notification"
	SettingsRepoName           RepositoryName = "settings"
)
