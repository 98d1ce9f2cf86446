package domain

import "net/url"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventResultAdded     EventType = "ResultAdded"
	EventResultRemoved   EventType = "ResultRemoved"
	EventResultUpdated   EventType = "ResultUpdated"
	EventCollectionReset EventType = "CollectionReset"
	EventResultsChanged  EventType = "ResultsChanged"
	EventSearchStarted   EventType = "SearchStarted"
	EventSearchError     EventType = "SearchError"
	EventStateChanged    EventType = "SearchStateChanged"
	EventURLChanged      EventType = "URLChanged"
	EventViewportChanged EventType = "ViewportChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ResultAddedEvent is emitted after a result enters the collection
type ResultAddedEvent struct {
	Result Result
	Index  int // position in the ordered collection
}

func (e ResultAddedEvent) Type() EventType { return EventResultAdded }

// ResultRemovedEvent is emitted after a result leaves the collection
type ResultRemovedEvent struct {
	Result Result
}

func (e ResultRemovedEvent) Type() EventType { return EventResultRemoved }

// ResultUpdatedEvent is emitted after a result changed in place
type ResultUpdatedEvent struct {
	Result  Result
	Changed []string // field names, see ChangedFields
}

func (e ResultUpdatedEvent) Type() EventType { return EventResultUpdated }

// CollectionResetEvent is emitted after the collection was replaced wholesale
type CollectionResetEvent struct {
	Previous []Result
	Current  []Result
}

func (e CollectionResetEvent) Type() EventType { return EventCollectionReset }

// ResultsChangedEvent is emitted when a search response was applied
type ResultsChangedEvent struct {
	Count         int  // total hits reported by the backend
	Loaded        int  // results now held by the collection
	HasMore       bool // more pages are available
	Appended      bool // the page was appended instead of replacing
	Generation    uint64
	LastTimestamp string
}

func (e ResultsChangedEvent) Type() EventType { return EventResultsChanged }

// SearchStartedEvent is emitted when a request is issued
type SearchStartedEvent struct {
	Generation uint64
	Params     url.Values
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchErrorEvent is emitted when a request failed for a reason other than supersession
type SearchErrorEvent struct {
	Generation uint64
	Err        error
}

func (e SearchErrorEvent) Type() EventType { return EventSearchError }

// StateChangedEvent is emitted when the coordinator changes phase
type StateChangedEvent struct {
	Phase string
	State SearchState
}

func (e StateChangedEvent) Type() EventType { return EventStateChanged }

// URLChangedEvent is emitted when the router wrote a new location
type URLChangedEvent struct {
	URL    string
	Pushed bool // false when the current entry was replaced
}

func (e URLChangedEvent) Type() EventType { return EventURLChanged }

// ViewportChangedEvent is emitted when the map viewport moved
type ViewportChangedEvent struct {
	Bounds Bounds
}

func (e ViewportChangedEvent) Type() EventType { return EventViewportChanged }
