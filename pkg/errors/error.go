package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// EngineCapacityExceeded represents an order id beyond the configured arena capacity.
	EngineCapacityExceeded ErrorCode = "engine_capacity_exceeded"
	// EnginePriceOutOfRange represents a limit price beyond the configured ladder range.
	EnginePriceOutOfRange ErrorCode = "engine_price_out_of_range"
	// EngineInvariantViolation represents an internal book invariant failure.
	EngineInvariantViolation ErrorCode = "engine_invariant_violation"
	// OrderRejected represents an incoming order that failed validation.
	OrderRejected ErrorCode = "order_rejected"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"

	// KafkaPublishError represents an error when writing a message to Kafka.
	KafkaPublishError ErrorCode = "kafka_publish_error"
)
