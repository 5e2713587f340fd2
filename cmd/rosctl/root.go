package main

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pior/routeros"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "rosctl",
	Short: "Talk to a RouterOS router over its API",
	Long: `rosctl runs commands against a RouterOS router through the binary API.

Every flag can also be set through the environment as ROUTEROS_<FLAG>
(e.g. ROUTEROS_PASSWORD=secret). .env and .env.local are loaded when present.`,
	SilenceUsage:      true,
	PersistentPreRunE: bindFlags,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("host", "192.168.88.1", "router host name or address")
	flags.Int("port", 8728, "router API port")
	flags.String("username", routeros.DefaultUsername, "login user")
	flags.String("password", "", "login password")
	flags.Duration("timeout", routeros.DefaultReadTimeout, "reply read timeout")
	flags.Duration("write-timeout", routeros.DefaultWriteTimeout, "sentence write timeout")
	flags.Int("max-reply-size", routeros.DefaultMaxReplySize, "largest reply accepted, in bytes")
	flags.Duration("dial-timeout", routeros.DefaultDialTimeout, "connection timeout")
	flags.Duration("settle-delay", routeros.DefaultSettleDelay, "wait between login and command")
	flags.String("completion", "final-reply", "reply completion: final-reply or timeout")
	flags.String("reauth", "every-command", "login policy: every-command or once")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(talkCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("routeros")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func bindFlags(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	return setupLogger()
}

func setupLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", viper.GetString("log-level"), err)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// sessionConfig builds the session configuration from flags and environment.
func sessionConfig() (routeros.Config, error) {
	config := routeros.DefaultConfig()
	config.Address = net.JoinHostPort(viper.GetString("host"), strconv.Itoa(viper.GetInt("port")))
	config.Username = viper.GetString("username")
	config.Password = viper.GetString("password")
	config.ReadTimeout = viper.GetDuration("timeout")
	config.WriteTimeout = viper.GetDuration("write-timeout")
	config.MaxReplySize = viper.GetInt("max-reply-size")
	config.DialTimeout = viper.GetDuration("dial-timeout")
	config.SettleDelay = viper.GetDuration("settle-delay")
	config.Logger = slog.Default()

	switch viper.GetString("completion") {
	case "final-reply":
		config.Completion = routeros.CompletionFinalReply
	case "timeout":
		config.Completion = routeros.CompletionTimeout
	default:
		return config, fmt.Errorf("invalid completion %q (expected final-reply or timeout)", viper.GetString("completion"))
	}

	switch viper.GetString("reauth") {
	case "every-command":
		config.Reauth = routeros.ReauthEveryCommand
	case "once":
		config.Reauth = routeros.ReauthOnce
	default:
		return config, fmt.Errorf("invalid reauth policy %q (expected every-command or once)", viper.GetString("reauth"))
	}

	if config.ReadTimeout <= 0 {
		return config, fmt.Errorf("timeout must be positive, got %s", config.ReadTimeout)
	}
	if config.SettleDelay < 0 {
		config.SettleDelay = 0
	}
	return config, nil
}

// breakerSettings are used by serve, where one router is hit repeatedly.
const (
	breakerMaxRequests = 1
	breakerInterval    = time.Minute
	breakerTimeout     = 30 * time.Second
)
