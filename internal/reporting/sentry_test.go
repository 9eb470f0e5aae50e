package reporting

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		error string
		want  string
	}{
		{
			name:  "sentry envelope over ipv6",
			error: `Get "https://sentry.io/api/0/envelope?id=deadbeef8315465d9d44cfc238c64f71": read tcp [dead:beef:feb1:d745::c001]:64079->[dead:beef::6811:112a]:443: read: connection reset by peer`,
			want:  `Get "https://sentry.io/api/0/envelope?id=<uuid>": read tcp <host>-><host>: read: connection reset by peer`,
		},
		{
			name:  "result id",
			error: `result 01950f3c-7a2b-7c44-9d1e-5b6f2a9c0e11 was recorded but the cooldown was not set: temporarily unavailable`,
			want:  `result <uuid> was recorded but the cooldown was not set: temporarily unavailable`,
		},
		{
			name:  "player id and database host",
			error: `failed to get player 123456789012345678: dial tcp 10.0.3.17:5432: connect: connection refused`,
			want:  `failed to get player <id>: dial tcp <host>: connect: connection refused`,
		},
		{
			name:  "ipv4 read timeout",
			error: `failed to record result: temporarily unavailable: read tcp 172.16.0.4:51234->172.16.0.9:5432: i/o timeout`,
			want:  `failed to record result: temporarily unavailable: read tcp <host>-><host>: i/o timeout`,
		},
		{
			name:  "short numbers are kept",
			error: `failed to list results: limit 1000 exceeded`,
			want:  `failed to list results: limit 1000 exceeded`,
		},
		{
			name:  "nothing to replace",
			error: `failed to count players: pq: relation "players" does not exist`,
			want:  `failed to count players: pq: relation "players" does not exist`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, c.want, sanitizeError(c.error))
		})
	}

	t.Run("ipv6 hosts", func(t *testing.T) {
		t.Parallel()

		for _, ip := range []string{`1:2:3:4:5:6:7:8`, `1::`, `1::8`, `1:2:3::5:6:7:8`, `::2:3:4:5:6:7:8`, `::8`, `::`} {
			require.Equal(t, "<host>", sanitizeError(fmt.Sprintf("[%s]:5432", ip)), ip)
		}
	})
}
