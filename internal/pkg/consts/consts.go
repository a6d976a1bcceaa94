package consts

const (
	UpstreamGateKey = "upstream:gate:lock"
	EnrichLockKeyPrefix = "enrich:lock:"
)

const (
	KafkaEventVideoDiscovered = "video.discovered"
	KafkaEventMetricSampled   = "metric.sampled"
)

const HeartbeatWorkerName = "unified-scheduler"
