package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "construxflow",
	Short: "construction marketplace service",
	Long: `construxflow connects contractors with workers and material suppliers.
Contractors publish projects with manpower requirements, workers apply for vacancies,
suppliers keep an inventory of materials which contractors order against.`,
	SilenceUsage: true,
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warn("load .env: ", err)
	}

	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CONSTRUXFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("service-name", "construxflow", "service name used in logs, metrics and traces")
	_ = viper.BindPFlag("service-name", rootCmd.PersistentFlags().Lookup("service-name"))
}

func registerCommands() {
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newStatsCmd())
}
