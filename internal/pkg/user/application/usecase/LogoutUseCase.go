package usecase

import "context"

// LogoutInput identifies the account logging out.
type LogoutInput struct {
	UserID string
}

// LogoutUseCase durably marks the account offline. Tokens are stateless, so
// nothing is revoked server-side; previously issued tokens stay valid until
// they expire.
type LogoutUseCase struct {
	Presence *SetPresenceUseCase
}

func NewLogoutUseCase(presence *SetPresenceUseCase) *LogoutUseCase {
	return &LogoutUseCase{Presence: presence}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, in LogoutInput) error {
	return uc.Presence.Execute(ctx, SetPresenceInput{UserID: in.UserID, Online: false})
}
