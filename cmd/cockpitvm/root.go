package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile    string
	debugFlag  bool
	maxGlobals int

	v   = viper.New()
	log *zap.SugaredLogger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cockpitvm",
		Short: "CockpitVM — a stack-based bytecode hypervisor for resource-constrained targets",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfigAndLogging()
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a TOML config file")
	root.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable development logging and debug-build stack canaries")
	root.PersistentFlags().IntVar(&maxGlobals, "max-globals", 0, "override the global-variable slot count (0 keeps the build default)")

	_ = v.BindPFlag("debug_checks", root.PersistentFlags().Lookup("debug"))
	v.SetEnvPrefix("COCKPITVM")
	v.AutomaticEnv()

	root.AddCommand(newRunCmd())
	root.AddCommand(newStepCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newDisasmCmd())

	return root
}

func initConfigAndLogging() error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	var zcfg zap.Config
	if debugFlag {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	logger, err := zcfg.Build()
	if err != nil {
		return err
	}
	log = logger.Sugar()
	return nil
}

// Execute builds and runs the root command tree.
func Execute() error {
	return newRootCmd().Execute()
}
