package model

// AcquisitionState represents the stage an acquisition request is in
type AcquisitionState string

const (
	// StateIdle means the request was created but not processed yet
	StateIdle AcquisitionState = "Idle"

	// StateResolving means the build ID is being checked against the catalog
	StateResolving AcquisitionState = "Resolving"

	// StateFetching means the archive download is in progress
	StateFetching AcquisitionState = "Fetching"

	// StateExtracting means the archive is being unpacked into the instance directory
	StateExtracting AcquisitionState = "Extracting"

	// StateSucceeded means the build was fetched and extracted
	StateSucceeded AcquisitionState = "Succeeded"

	// StateFailed means the request terminated with an error
	StateFailed AcquisitionState = "Failed"
)

var stateTransitions = map[AcquisitionState][]AcquisitionState{
	StateIdle:       {StateResolving},
	StateResolving:  {StateFailed, StateFetching},
	StateFetching:   {StateFailed, StateExtracting},
	StateExtracting: {StateFailed, StateSucceeded},
}

// String returns the string representation of AcquisitionState
func (s AcquisitionState) String() string {
	return string(s)
}

// IsActive returns true while a background task is running for the request
func (s AcquisitionState) IsActive() bool {
	return s == StateFetching || s == StateExtracting
}

// IsFinished returns true if the state is terminal (succeeded or failed)
func (s AcquisitionState) IsFinished() bool {
	return s == StateSucceeded || s == StateFailed
}

// CanTransition reports whether moving from s to next is allowed
func (s AcquisitionState) CanTransition(next AcquisitionState) bool {
	for _, allowed := range stateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
