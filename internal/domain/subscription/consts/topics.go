package consts

const (
	TopicSubscriptionCreated = "subscription.created"
	TopicSubscriptionRenewed = "subscription.renewed"
	TopicSubscriptionDeleted = "subscription.deleted"
)
