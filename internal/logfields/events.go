package logfields

import "go.uber.org/zap"

func EventProvider(val string) zap.Field {
	return zap.String("event_provider", val)
}

func Event(val string) zap.Field {
	return zap.String("event", val)
}

// EvaluationID is the correlation id of a single readiness evaluation.
func EvaluationID(val string) zap.Field {
	return zap.String("evaluation_id", val)
}

func Verdict(val string) zap.Field {
	return zap.String("verdict", val)
}
