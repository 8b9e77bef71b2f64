package domain

// Table is a mongo collection name
type Table string

const (
	TableTokenManagers Table = "tokenManagers"
	TablePaymentMints  Table = "paymentMints"
	TableProjects      Table = "projects"
	TableAccounts      Table = "accounts"
	TableStatistics    Table = "statistics"
)
