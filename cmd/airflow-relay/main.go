// Command airflow-relay accepts Airflow DAG run and task instance events
// over HTTP and publishes them to Kafka.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	envFlag := &cli.StringSliceFlag{
		Name:    "env-file",
		Usage:   "dotenv files to load before reading the environment",
		Value:   cli.NewStringSlice(".env"),
		EnvVars: []string{"AIRFLOW_RELAY_ENV_FILE"},
	}

	return &cli.App{
		Name:    "airflow-relay",
		Usage:   "relay Airflow lifecycle events to Kafka",
		Version: version,
		Flags:   []cli.Flag{envFlag},
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:  "schemas",
				Usage: "print the Avro key and value schemas of every event shape",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "dag_run or task_instance"},
					&cli.StringFlag{Name: "source-version", Usage: "legacy, v2 or v3"},
					&cli.BoolFlag{Name: "examples", Usage: "include the example record of each shape"},
				},
				Action: printSchemas,
			},
			{
				Name:   "check-schemas",
				Usage:  "check every configured topic's schemas against the registry",
				Action: checkSchemas,
			},
		},
	}
}
