package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sitefeed/internal/apiclient"
	"sitefeed/internal/auth"
	"sitefeed/internal/domain/updates"
	"sitefeed/internal/feed"
	"sitefeed/internal/uploader"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Settings is the resolved configuration of one feedctl run. Flags take
// precedence over FEEDCTL_* environment variables.
type Settings struct {
	APIURL        string        `mapstructure:"api_url"`
	Token         string        `mapstructure:"token"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTIssuer     string        `mapstructure:"jwt_issuer"`
	SectionID     string        `mapstructure:"section"`
	SectionType   string        `mapstructure:"section_type"`
	SectionName   string        `mapstructure:"section_name"`
	UserID        string        `mapstructure:"user_id"`
	FirstName     string        `mapstructure:"first_name"`
	LastName      string        `mapstructure:"last_name"`
	BaseDomain    string        `mapstructure:"base_domain"`
	CloudinaryURL string        `mapstructure:"cloudinary_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Debug         bool          `mapstructure:"debug"`
}

// deps builds the collaborators a command needs. Tests replace it to point the
// session at a mock transport.
type deps struct {
	settings  *Settings
	transport http.RoundTripper
	uploader  feed.Uploader
	out       io.Writer
}

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	return newRootCommand(&deps{settings: &Settings{}})
}

func newRootCommand(d *deps) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("feedctl")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "feedctl",
		Short:         "Read and post construction updates and their reviews",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := setupFlags(rootCmd, v); err != nil {
		panic(err)
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := v.Unmarshal(d.settings); err != nil {
			return fmt.Errorf("error reading settings: %w", err)
		}
		if d.out == nil {
			d.out = cmd.OutOrStdout()
		}
		return nil
	}

	rootCmd.AddCommand(
		listCommand(d),
		publishCommand(d),
		reviewCommand(d),
	)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, v *viper.Viper) error {
	flags := rootCmd.PersistentFlags()
	flags.String("api-url", "http://localhost:8080", "Base URL of the feed API")
	flags.String("token", "", "Bearer token; minted from --jwt-secret when empty")
	flags.String("jwt-secret", "", "Secret used to mint a token for --user-id (development only)")
	flags.String("jwt-issuer", "sitefeed", "Issuer and audience of minted tokens")
	flags.String("section", "", "Section id whose feed to open")
	flags.String("section-type", string(updates.SectionProject), "Section type: project, building or flat")
	flags.String("section-name", "", "Display name used when the section gets its first update")
	flags.String("user-id", "", "Viewing user id")
	flags.String("first-name", "", "Viewing user first name")
	flags.String("last-name", "", "Viewing user last name")
	flags.String("base-domain", "", "Prefix for server-relative image paths")
	flags.String("cloudinary-url", "", "cloudinary:// URL used to upload local images")
	flags.Duration("timeout", apiclient.DefaultTimeout, "Per-request timeout")
	flags.BoolP("debug", "d", false, "Enable debug output")

	for _, name := range []string{
		"api-url", "token", "jwt-secret", "jwt-issuer", "section", "section-type", "section-name",
		"user-id", "first-name", "last-name", "base-domain", "cloudinary-url", "timeout", "debug",
	} {
		key := strings.ReplaceAll(name, "-", "_")
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", name, err)
		}
	}
	return nil
}

func (d *deps) logger() *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if d.settings.Debug {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(zapcore.AddSync(cmdStderr)), level)
	return zap.New(core).Sugar()
}

func (d *deps) author() feed.Author {
	return feed.Author{
		ID:        d.settings.UserID,
		FirstName: d.settings.FirstName,
		LastName:  d.settings.LastName,
	}
}

func (d *deps) token() (string, error) {
	s := d.settings
	if s.Token != "" || s.JWTSecret == "" {
		return s.Token, nil
	}
	if s.UserID == "" {
		return "", fmt.Errorf("--user-id is required to mint a token")
	}
	a := auth.NewJWTAuthenticator(s.JWTSecret, s.JWTIssuer, s.JWTIssuer)
	return a.GenerateToken(auth.Identity{
		UserID:    s.UserID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}, time.Hour)
}

// openSession mounts a session on the configured section and loads it.
func (d *deps) openSession(ctx context.Context, withUploader bool) (*feed.Session, func(), error) {
	s := d.settings
	if s.SectionID == "" {
		return nil, nil, fmt.Errorf("--section is required")
	}
	token, err := d.token()
	if err != nil {
		return nil, nil, err
	}
	logger := d.logger()

	client, err := apiclient.New(apiclient.Config{
		BaseURL:        s.APIURL,
		Token:          token,
		DefaultTimeout: s.Timeout,
		UserAgent:      "feedctl",
		Transport:      d.transport,
	})
	if err != nil {
		return nil, nil, err
	}
	client.SetAfterResponseHook(func(req *http.Request, resp *http.Response, took time.Duration, err error) {
		if err != nil {
			logger.Debugw("request failed", "method", req.Method, "path", req.URL.Path, "took", took, "error", err)
			return
		}
		logger.Debugw("request", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "took", took)
	})

	var up feed.Uploader
	if withUploader {
		up = d.uploader
		if up == nil && s.CloudinaryURL != "" {
			c, err := uploader.NewCloudinaryFromURL(s.CloudinaryURL, "", logger)
			if err != nil {
				client.Close()
				return nil, nil, err
			}
			up = c
		}
	}

	ledger := feed.NewReviewLedger(client, logger)
	repo := feed.NewUpdateRepository(client, ledger, logger)
	session := feed.NewSession(ctx, feed.SessionConfig{
		SectionID:   s.SectionID,
		SectionType: updates.SectionType(s.SectionType),
		SectionName: s.SectionName,
		Author:      d.author(),
		BaseDomain:  s.BaseDomain,
		Logger:      logger,
	}, repo, ledger, up)

	closeAll := func() {
		session.Close()
		client.Close()
		_ = logger.Sync()
	}
	if err := session.Refresh(ctx); err != nil {
		closeAll()
		return nil, nil, err
	}
	return session, closeAll, nil
}
