package logfields

import "go.uber.org/zap"

func PullRequest(val int) zap.Field {
	return zap.Int("github.pull_request", val)
}

func Repository(val string) zap.Field {
	return zap.String("git.repository", val)
}

func RepositoryOwner(val string) zap.Field {
	return zap.String("github.repository_owner", val)
}

func Commit(val string) zap.Field {
	return zap.String("git.commit", val)
}

func WorkflowRun(id int64) zap.Field {
	return zap.Int64("github.workflow_run_id", id)
}

// SelfWorkflowRun is the id of the workflow run that invoked the evaluation.
func SelfWorkflowRun(id int64) zap.Field {
	return zap.Int64("github.self_workflow_run_id", id)
}

func WorkflowJob(id int64) zap.Field {
	return zap.Int64("github.workflow_job_id", id)
}

func DeliveryID(val string) zap.Field {
	return zap.String("github.delivery_id", val)
}
