package hermes

const (
	SubjectPlacementRequest = "placement.request"

	StreamName   = "PLACEMENT_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectPlacementScored(requestID string) string { return "placement." + requestID + ".scored" }
func SubjectPlacementFailed(requestID string) string { return "placement." + requestID + ".failed" }

// Node lifecycle subjects
func SubjectNodeUpdated(name string) string   { return "placement.node." + name + ".updated" }
func SubjectNodeDeleted(name string) string   { return "placement.node." + name + ".deleted" }
func SubjectNodeCordoned(name string) string  { return "placement.node." + name + ".cordoned" }
func SubjectNodeUncordoned(name string) string { return "placement.node." + name + ".uncordoned" }
