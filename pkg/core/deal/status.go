package deal

// Status is a deal's position in the acquisition pipeline. Transitions are
// driven by the orchestration layer; the scoring and ranking core only reads
// the current value.
type Status string

const (
	StatusNew           Status = "NEW"
	StatusScreened      Status = "SCREENED"
	StatusAnalyzed      Status = "ANALYZED"
	StatusShortlisted   Status = "SHORTLISTED"
	StatusRejected      Status = "REJECTED"
	StatusOfferMade     Status = "OFFER_MADE"
	StatusUnderContract Status = "UNDER_CONTRACT"
	StatusClosed        Status = "CLOSED"
)

var validTransitions = map[Status][]Status{
	StatusNew:           {StatusScreened, StatusRejected},
	StatusScreened:      {StatusAnalyzed, StatusRejected},
	StatusAnalyzed:      {StatusShortlisted, StatusRejected},
	StatusShortlisted:   {StatusOfferMade, StatusRejected},
	StatusOfferMade:     {StatusUnderContract, StatusRejected},
	StatusUnderContract: {StatusClosed, StatusRejected},
	StatusRejected:      {},
	StatusClosed:        {},
}

// CanTransition reports whether moving from s to next is a legal pipeline step.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return len(validTransitions[s]) == 0
}
