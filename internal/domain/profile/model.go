package profile

// Profile is a registered user as seen by the notification dispatcher.
type Profile struct {
	UserID      string
	DisplayName string
	DeviceToken string
	Active      bool
}

// Notifiable reports whether the profile can receive push messages.
func (p Profile) Notifiable() bool {
	return p.Active && p.DeviceToken != ""
}
