package events

// Engagement event types carried on the engagement queue and delivered as
// per-user notifications. These structs are intentionally small and
// versionable; changes should be additive.
const (
	TypeNoteLiked      = "note_liked"
	TypeNoteDownloaded = "note_downloaded"
	TypeNewFollower    = "new_follower"
	TypeTipReceived    = "tip_received"
)

// Engagement is published when one user acts on another user's note or
// profile. OwnerID is the recipient of the resulting notification.
type Engagement struct {
	Type    string  `json:"type"`
	NoteID  int     `json:"noteId,omitempty"`
	ActorID int     `json:"actorId"`
	OwnerID int     `json:"ownerId"`
	Amount  float64 `json:"amount,omitempty"`
}

// CampaignSend asks the consumer to fan a campaign out to its audience.
type CampaignSend struct {
	CampaignID int `json:"campaignId"`
}
