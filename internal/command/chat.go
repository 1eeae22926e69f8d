package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mimouss56/wwsnb/internal/chat"
	"github.com/Mimouss56/wwsnb/internal/core"
	"github.com/Mimouss56/wwsnb/internal/reactions"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// NewChatCmd runs the interactive session. Multiple invocations sharing a
// session token (and spool or broker) stay in sync like sibling tabs.
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [user name]",
		Short: "Open an augmented chat session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			currentUser := "Théo Vilain"
			if len(args) == 1 {
				currentUser = core.CleanUsername(args[0])
			}

			log, err := buildLogger(viper.GetBool("verbose"))
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			session := resolveSession(viper.GetString("session"))

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			channel, err := openChannel(cmd.Context(), session, log)
			if err != nil {
				return err
			}

			return chat.Run(chat.Options{
				Session:     session,
				CurrentUser: currentUser,
				Roster:      []string{"Théo Martin", "Théa Dubois", "Marc Léo", currentUser},
				Store:       store,
				Channel:     channel,
				Freshness:   viper.GetDuration("freshness"),
				Debounce:    viper.GetDuration("debounce"),
				Sweep:       viper.GetDuration("sweep"),
				Log:         log,
			})
		},
	}
	return cmd
}

// resolveSession accepts either a bare session token or a full page URL
// carrying ?sessionToken=.
func resolveSession(raw string) string {
	if raw == "" {
		return core.DefaultSession
	}
	if strings.Contains(raw, "://") {
		return core.SessionToken(raw)
	}
	return raw
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{filepath.Join(os.TempDir(), "wwsnb-debug.log")}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

func openStore() (reactions.Store, error) {
	path := viper.GetString("store")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, ".wwsnb", "state.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return reactions.OpenSQLiteStore(path)
}

func openChannel(ctx context.Context, session string, log *zap.Logger) (reactions.Channel, error) {
	if addr := viper.GetString("redis"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		return reactions.OpenRedisChannel(ctx, client, reactions.ScopeName(session), log)
	}

	spool := viper.GetString("spool")
	if spool == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		spool = filepath.Join(home, ".wwsnb", "spool")
	}
	return reactions.OpenFileChannel(spool, reactions.ScopeName(session), log)
}
