package push

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCM sends push notifications through Firebase Cloud Messaging.
type FCM struct {
	client *messaging.Client
}

// NewFCM initializes the Firebase app from FIREBASE_CREDENTIALS_FILE, or
// Application Default Credentials when unset.
func NewFCM(ctx context.Context) (*FCM, error) {
	var opts []option.ClientOption
	if path := os.Getenv("FIREBASE_CREDENTIALS_FILE"); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return &FCM{client: client}, nil
}

func (f *FCM) Send(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		// No device token registered: in-app only.
		return nil
	}
	_, err := f.client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{
			Title: msg.Titolo,
			Body:  msg.Testo,
		},
		Token: msg.Token,
	})
	return err
}
