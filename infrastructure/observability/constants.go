package observability

// Metric name prefixes
const (
	MetricPrefix = "reiatsu"
)

// Metric names
const (
	// Discord metrics
	CommandsTotal = MetricPrefix + ".commands.total"

	// Economy metrics
	PointsTransactionsTotal = MetricPrefix + ".points.transactions_total"
	SpawnsClaimedTotal      = MetricPrefix + ".spawns.claimed_total"
	StealsTotal             = MetricPrefix + ".steals.total"

	// RPG metrics
	CombatsTotal         = MetricPrefix + ".rpg.combats_total"
	QuestsCompletedTotal = MetricPrefix + ".quests.completed_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelCommand   = "command"
	LabelKind      = "kind"
	LabelOutcome   = "outcome"
	LabelSuccess   = "success"
)
