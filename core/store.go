package core

// ResultStore persists completed runs. Implementations must be safe for
// concurrent use.
type ResultStore interface {
	SaveSession(s *Session) error
	SaveOrchestration(sessionID string, r *OrchestrationResult) error
	SaveMeeting(sessionID string, r *MeetingResult) error
	Decisions(meetingID string) ([]Decision, error)
}

// ArtifactStore persists extracted artifacts scoped by meeting identifier.
type ArtifactStore interface {
	Save(meetingID, artifactID string, data []byte) error
	Get(meetingID, artifactID string) ([]byte, error)
	List(meetingID string) ([]string, error)
	Delete(meetingID, artifactID string) error
}
