package syncer

import (
	"github.com/dmitrijs2005/tracker/internal/client/client"
	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/logging"
)

var (
	ActivitiesEndpoint    = Endpoint{Family: "activities", Path: "activities/sync", PayloadKey: "activities"}
	ActivityKindsEndpoint = Endpoint{Family: "activity_kinds", Path: "activity-kinds/sync", PayloadKey: "activityKinds"}
	ActivityLogsEndpoint  = Endpoint{Family: "activity_logs", Path: "activity-logs/sync", PayloadKey: "activityLogs"}
	GoalsEndpoint         = Endpoint{Family: "goals", Path: "goals/sync", PayloadKey: "goals"}
	TasksEndpoint         = Endpoint{Family: "tasks", Path: "tasks/sync", PayloadKey: "tasks"}
)

type (
	ActivitySync     = SyncClient[models.Activity, client.ActivityDTO, client.ActivityDTO]
	ActivityKindSync = SyncClient[models.ActivityKind, client.ActivityKindDTO, client.ActivityKindDTO]
	ActivityLogSync  = SyncClient[models.ActivityLog, client.ActivityLogDTO, client.ActivityLogDTO]
	GoalSync         = SyncClient[models.Goal, client.GoalDTO, client.ServerGoal]
	TaskSync         = SyncClient[models.Task, client.TaskDTO, client.TaskDTO]
)

func NewActivitySync(repo Repository[models.Activity], api client.Client, batchSize int, log logging.Logger) *ActivitySync {
	return NewSyncClient(repo, api, ActivitiesEndpoint, client.ActivityToWire, client.ActivityFromServer, batchSize, log)
}

func NewActivityKindSync(repo Repository[models.ActivityKind], api client.Client, batchSize int, log logging.Logger) *ActivityKindSync {
	return NewSyncClient(repo, api, ActivityKindsEndpoint, client.ActivityKindToWire, client.ActivityKindFromServer, batchSize, log)
}

func NewActivityLogSync(repo Repository[models.ActivityLog], api client.Client, batchSize int, log logging.Logger) *ActivityLogSync {
	return NewSyncClient(repo, api, ActivityLogsEndpoint, client.ActivityLogToWire, client.ActivityLogFromServer, batchSize, log)
}

// NewGoalSync pushes goals without their derived balance fields.
func NewGoalSync(repo Repository[models.Goal], api client.Client, batchSize int, log logging.Logger) *GoalSync {
	return NewSyncClient(repo, api, GoalsEndpoint, client.GoalToWire, client.GoalFromServer, batchSize, log)
}

func NewTaskSync(repo Repository[models.Task], api client.Client, batchSize int, log logging.Logger) *TaskSync {
	return NewSyncClient(repo, api, TasksEndpoint, client.TaskToWire, client.TaskFromServer, batchSize, log)
}
