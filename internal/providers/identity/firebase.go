package identity

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseProvider struct {
	client *auth.Client
}

func NewFirebase(ctx context.Context, projectID string, opts ...option.ClientOption) (*FirebaseProvider, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) Verify(ctx context.Context, idToken string) (Identity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return Identity{}, ErrInvalidToken
	}

	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	ident := Identity{ID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := token.Claims["name"].(string); ok {
		ident.Name = name
	}
	return ident, nil
}

func (p *FirebaseProvider) FindOrCreateByEmail(ctx context.Context, email, name string) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Identity{}, ErrInvalidEmail
	}

	user, err := p.client.GetUserByEmail(ctx, email)
	if err == nil {
		return fromUserRecord(user), nil
	}
	if !auth.IsUserNotFound(err) {
		return Identity{}, err
	}

	params := (&auth.UserToCreate{}).Email(email)
	if name = strings.TrimSpace(name); name != "" {
		params = params.DisplayName(name)
	}
	created, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return Identity{}, err
	}
	return fromUserRecord(created), nil
}

func fromUserRecord(user *auth.UserRecord) Identity {
	if user == nil || user.UserInfo == nil {
		return Identity{}
	}
	return Identity{
		ID:    user.UserInfo.UID,
		Email: user.UserInfo.Email,
		Name:  user.UserInfo.DisplayName,
	}
}
