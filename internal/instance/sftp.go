package instance

import (
	"context"
	"fmt"
	"os"
)

// SFTPSource is the "sftp" Source: it holds the connection settings for a
// remote instance directory and has the same shape LocalSource exposes. It
// has no SFTP client, so it fetches nothing (see Fetch).
type SFTPSource struct {
	Host      string
	User      string
	KeyRef    string // reference into whatever secret store holds the private key
	RemoteDir string
}

// Fetch is a stub: it opens no connection and always returns an error
// naming the requested instance, with empty Tables.
func (s SFTPSource) Fetch(ctx context.Context, name string) (Tables, error) {
	return Tables{}, fmt.Errorf("SFTPSource.Fetch: SFTP dial not wired up for %q", name)
}

func init() {
	Register("sftp", SFTPSource{
		Host:      os.Getenv("INSTANCE_SFTP_HOST"),
		User:      os.Getenv("INSTANCE_SFTP_USER"),
		KeyRef:    os.Getenv("INSTANCE_SFTP_KEY_REF"),
		RemoteDir: os.Getenv("INSTANCE_SFTP_REMOTE_DIR"),
	})
}
