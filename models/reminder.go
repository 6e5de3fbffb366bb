package models

// ReminderPayload is the queued task payload for a meeting reminder. It
// carries only the approval token; the worker re-reads the record at fire
// time so a booking finalized differently in the meantime is skipped.
type ReminderPayload struct {
	Token    string `json:"token"`
	FireDate string `json:"fireDate"`
}
