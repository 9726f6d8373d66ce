package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventItemsLoaded        EventType = "ItemsLoaded"
	EventGroupsLoaded       EventType = "GroupsLoaded"
	EventGroupAdded         EventType = "GroupAdded"
	EventGroupActivated     EventType = "GroupActivated"
	EventSelectionChanged   EventType = "SelectionChanged"
	EventPersistScheduled   EventType = "PersistScheduled"
	EventGroupPersisted     EventType = "GroupPersisted"
	EventPersistFailed      EventType = "PersistFailed"
	EventScenariosLoaded    EventType = "ScenariosLoaded"
	EventScenarioActivated  EventType = "ScenarioActivated"
	EventScenarioDeleted    EventType = "ScenarioDeleted"
	EventRunGateChanged     EventType = "RunGateChanged"
	EventSimulationLaunched EventType = "SimulationLaunched"
	EventError              EventType = "Error"
	EventConfigLoaded       EventType = "ConfigLoaded"
	EventConfigSaved        EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ItemsLoadedEvent is emitted when a category's item list arrives
type ItemsLoadedEvent struct {
	Category Category
	Count    int
}

func (e ItemsLoadedEvent) Type() EventType { return EventItemsLoaded }

// GroupsLoadedEvent is emitted when the group list arrives
type GroupsLoadedEvent struct {
	Groups []Group
}

func (e GroupsLoadedEvent) Type() EventType { return EventGroupsLoaded }

// GroupAddedEvent is emitted when a new group is created
type GroupAddedEvent struct {
	Group Group
}

func (e GroupAddedEvent) Type() EventType { return EventGroupAdded }

// GroupActivatedEvent is emitted once a group's selection has been applied
type GroupActivatedEvent struct {
	Group Group
}

func (e GroupActivatedEvent) Type() EventType { return EventGroupActivated }

// SelectionChangedEvent is emitted after a local selection mutation
type SelectionChangedEvent struct {
	Category Category
	Added    []int
	Removed  []int
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// PersistScheduledEvent is emitted when the debounce timer is (re)armed
type PersistScheduledEvent struct {
	GroupID int
}

func (e PersistScheduledEvent) Type() EventType { return EventPersistScheduled }

// GroupPersistedEvent is emitted after a successful PUT
type GroupPersistedEvent struct {
	GroupID int
	Record  GroupRecord
}

func (e GroupPersistedEvent) Type() EventType { return EventGroupPersisted }

// PersistFailedEvent is emitted when a PUT fails. It is never retried.
type PersistFailedEvent struct {
	GroupID int
	Err     error
}

func (e PersistFailedEvent) Type() EventType { return EventPersistFailed }

// ScenariosLoadedEvent is emitted when the scenario list arrives
type ScenariosLoadedEvent struct {
	Scenarios []Scenario
}

func (e ScenariosLoadedEvent) Type() EventType { return EventScenariosLoaded }

// ScenarioActivatedEvent is emitted when the active scenario changes
type ScenarioActivatedEvent struct {
	Scenario Scenario
}

func (e ScenarioActivatedEvent) Type() EventType { return EventScenarioActivated }

// ScenarioDeletedEvent is emitted after a scenario is deleted
type ScenarioDeletedEvent struct {
	ID int
}

func (e ScenarioDeletedEvent) Type() EventType { return EventScenarioDeleted }

// RunGateChangedEvent is emitted when the run action becomes available or not
type RunGateChangedEvent struct {
	Open bool
}

func (e RunGateChangedEvent) Type() EventType { return EventRunGateChanged }

// SimulationLaunchedEvent is emitted when the backend accepted a simulation
type SimulationLaunchedEvent struct {
	ScenarioID int
	GroupID    int
}

func (e SimulationLaunchedEvent) Type() EventType { return EventSimulationLaunched }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
