package main

import (
	"construxflow/account"
	"construxflow/client/es"
	"construxflow/client/s3"
	"construxflow/domain"
	"construxflow/domain/stats"
	"construxflow/event"
	"construxflow/indices"
	"construxflow/infra/tracing"
	"construxflow/misc"
	"construxflow/persistence"
	"construxflow/servehttp"
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the http service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(viper.GetString("listen"), viper.GetBool("migrate"))
		},
	}
	cmd.Flags().String("listen", ":80", "http listen address")
	cmd.Flags().Bool("migrate", true, "migrate database schema before serving")
	_ = viper.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("migrate", cmd.Flags().Lookup("migrate"))
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create the database if absent and migrate the schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := openDatabase()
			if err != nil {
				return err
			}
			defer ds.Stop()
			return migrate(ds)
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "print platform statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := openDatabase()
			if err != nil {
				return err
			}
			defer ds.Stop()
			stat, err := stats.Collect(ds.GormDB(context.Background()))
			if err != nil {
				return err
			}
			stat.WriteTable(os.Stdout)
			return nil
		},
	}
}

func serve(listen string, migrateOnStart bool) error {
	misc.SetServiceName(viper.GetString("service-name"))
	logrus.Info("service start")

	closer, err := tracing.InitGlobalTracer(misc.ServiceName())
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	ds, err := openDatabase()
	if err != nil {
		return err
	}
	defer ds.Stop()

	// concurrent instances may race on migration
	if migrateOnStart {
		if err := migrate(ds); err != nil {
			return err
		}
	}
	if err := account.DefaultSecurityConfiguration(); err != nil {
		return fmt.Errorf("security configuration: %w", err)
	}

	s3.Bootstrap()

	searchEnabled := os.Getenv("ELASTICSEARCH_URL") != ""
	if searchEnabled {
		if _, err := es.CreateClientFromEnv(); err != nil {
			return fmt.Errorf("elasticsearch client: %w", err)
		}
		event.EventHandlers = append(event.EventHandlers, indices.IndexMaterialEventHandle)
		crontab, err := indices.StartCron()
		if err != nil {
			return fmt.Errorf("schedule index sync: %w", err)
		}
		defer crontab.Stop()
	} else {
		logrus.Warn("ELASTICSEARCH_URL is not set, material full text search is disabled")
	}

	engine := servehttp.BuildEngine(servehttp.Options{SearchEnabled: searchEnabled})
	return servehttp.StartHTTPServer(listen, engine)
}

func openDatabase() (*persistence.DataSourceManager, error) {
	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			return nil, fmt.Errorf("prepare database: %w", err)
		}
	}

	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	persistence.ActiveDataSourceManager = ds
	return ds, nil
}

func migrate(ds *persistence.DataSourceManager) error {
	err := ds.GormDB(context.Background()).AutoMigrate(
		&account.User{},
		&domain.Project{}, &domain.ManpowerRequirement{}, &domain.WorkerApplication{},
		&domain.InventoryItem{}, &domain.Order{}, &domain.Rating{},
		&event.EventRecord{},
	).Error
	if err != nil {
		return fmt.Errorf("database migration: %w", err)
	}
	return nil
}
