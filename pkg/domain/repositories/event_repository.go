package repositories

import "github.com/kentonium3/bake-tracker-sub012/pkg/domain/entities"

// EventRepository provides access to events, their requirements, and the
// batch decisions recorded against them
type EventRepository interface {
	GetEvent(id entities.EventID) (*entities.Event, error)
	SaveEvent(event *entities.Event) error

	GetRequirements(eventID entities.EventID) ([]*entities.EventRequirement, error)
	SaveRequirement(req *entities.EventRequirement) error

	GetBatchDecisions(eventID entities.EventID) ([]*entities.BatchDecision, error)
	// SaveBatchDecision upserts the decision for (event, recipe).
	SaveBatchDecision(decision *entities.BatchDecision) error
}

// PlanRepository provides access to plan snapshots. SaveSnapshot replaces
// any existing snapshot for the event wholesale.
type PlanRepository interface {
	GetSnapshot(eventID entities.EventID) (*entities.PlanSnapshot, error)
	SaveSnapshot(snapshot *entities.PlanSnapshot) error
}
