package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/jwalton/gchalk"
	"github.com/minepkg/mcinstall/cmd/config"
	"github.com/minepkg/mcinstall/cmd/dev"
	"github.com/minepkg/mcinstall/internals/commands"
	"github.com/minepkg/mcinstall/internals/globals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	// Version is set by main
	Version = "dev"
	// Commit is set by main
	Commit string
)

var (
	cfgFile       string
	disableColors bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcinstall",
	Short: "Installs Minecraft versions and mod loaders",
	Long:  "Downloads vanilla Minecraft, Fabric, Forge, NeoForge and OptiFine into a .minecraft directory",

	Example: `
  mcinstall versions --type release
  mcinstall install 1.20.1
  mcinstall install 1.20.1 --loader fabric --name myserver`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = Version
	if Commit != "" {
		rootCmd.Version += " (" + Commit + ")"
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&disableColors, "no-color", "", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $CONFIG_DIR/mcinstall/config.toml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log diagnostics to stderr")
	rootCmd.PersistentFlags().String("root", "", "minecraft directory (default is the platform .minecraft)")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "never prompt")

	viper.BindPFlag("verboselogging", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("noninteractive", rootCmd.PersistentFlags().Lookup("non-interactive"))

	rootCmd.AddCommand(config.SubCmd)
	rootCmd.AddCommand(dev.SubCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	if disableColors || os.Getenv("CI") != "" {
		gchalk.SetLevel(gchalk.LevelNone)
		globals.Logger.DisableColor()
		commands.EmojiEnabled = false
	}

	globals.SetDefaults()

	configDir, err := os.UserConfigDir()
	if err == nil {
		globals.ConfigDir = filepath.Join(configDir, "mcinstall")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(globals.ConfigDir)
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("MCINSTALL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			globals.Logger.Warn("could not read config: " + err.Error())
		}
	}

	if viper.GetString("root") == "" {
		viper.Set("root", globals.DefaultRoot())
	}

	if viper.GetBool("verboselogging") {
		logger, err := zap.NewDevelopment()
		if err == nil {
			globals.Zap = logger
		}
	}
}
