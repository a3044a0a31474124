package simulation

// EventKind identifies what happens when an event fires
type EventKind int

const (
	// Arrival is a new customer entering the system
	Arrival EventKind = iota
	// Departure is the customer in service leaving the system
	Departure
)

func (k EventKind) String() string {
	switch k {
	case Arrival:
		return "arrival"
	case Departure:
		return "departure"
	default:
		return "unknown"
	}
}

// Event is a scheduled point in simulated time. Events are values and are
// never mutated once scheduled.
type Event struct {
	Time float64
	Kind EventKind

	// seq is the scheduling order, used to break remaining ties
	seq uint64
}

// Customer is one unit of work. ServiceTime is sampled at arrival and fixed.
type Customer struct {
	ArrivalTime float64
	ServiceTime float64
}

// inService is the customer currently holding the server, together with the
// turnaround it will report once its departure fires.
type inService struct {
	customer   Customer
	turnaround float64
}

// Snapshot is the engine state right after an event has been processed
type Snapshot struct {
	Seq               int
	Event             Event
	Clock             float64
	ServerBusy        bool
	WaitingLine       int
	PendingDepartures int
	Completed         int
}
