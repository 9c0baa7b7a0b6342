package record

var v3DagRunFields = []Field{
	{Name: "dag_id", Type: String, Required: true, Doc: "The unique identifier for the DAG.", Example: "tutorial"},
	{Name: "run_id", Type: String, Required: true, Doc: "The unique identifier for this specific DAG run.", Example: "manual__2025-04-30T19:08:23.655103+00:00"},
	{Name: "queued_at", Type: Timestamp, Doc: "Timestamp when the DAG run was added to the queue (ISO 8601 format).", Example: "2025-04-30T19:08:23.667685+00:00"},
	{Name: "start_date", Type: Timestamp, Doc: "Timestamp when the DAG run actually started execution (ISO 8601 format).", Example: "2025-04-30T19:08:24.067821+00:00"},
	{Name: "end_date", Type: Timestamp, Doc: "Timestamp when the DAG run finished execution (ISO 8601 format).", Example: nil},
	{Name: "data_interval_start", Type: Timestamp, Doc: "The start timestamp of the data interval covered by this DAG run (ISO 8601 format).", Example: "2025-04-30T19:00:00+00:00"},
	{Name: "data_interval_end", Type: Timestamp, Doc: "The end timestamp of the data interval covered by this DAG run (ISO 8601 format).", Example: "2025-04-30T20:00:00+00:00"},
	{Name: "run_after", Type: Timestamp, Doc: "Timestamp after which this run is allowed to start (used for scheduling dependencies, ISO 8601 format).", Example: "2025-04-30T19:08:22.596000+00:00"},
	{Name: "last_scheduling_decision", Type: Timestamp, Doc: "Timestamp of the last scheduling decision made for this run (ISO 8601 format).", Example: "2025-04-30T19:08:23.672789+00:00"},
	{Name: "updated_at", Type: Timestamp, Doc: "Timestamp when the DAG run record was last updated (ISO 8601 format).", Example: "2025-04-30T19:08:23.672789+00:00"},
	{Name: "logical_date", Type: Timestamp, Required: true, Doc: "The logical date/time for which the DAG run is executing (ISO 8601 format). Often synonymous with data_interval_start or execution_date.", Example: "2025-04-30T19:08:22.596000+00:00"},
	{Name: "state", Type: String, Required: true, Doc: "The current state of the DAG run (e.g., 'queued', 'running', 'success', 'failed').", Example: "running"},
	{Name: "run_type", Type: String, Required: true, Doc: "The type of the DAG run (e.g., 'scheduled', 'manual', 'backfill', 'dataset_triggered').", Example: "manual"},
	{Name: "triggered_by", Type: String, Required: true, Doc: "String representation indicating how the run was triggered (e.g., user, scheduler, API).", Example: "DagRunTriggeredByType.REST_API"},
	{Name: "span_status", Type: String, Required: true, Doc: "Status related to OpenTelemetry tracing span, if enabled.", Example: "not_started"},
	{Name: "creating_job_id", Type: Long, Doc: "The ID of the SchedulerJob or BackfillJob that created this DAG run.", Example: nil},
	{Name: "log_template_id", Type: Long, Doc: "The ID of the log template used for this run.", Example: 1},
	{Name: "scheduled_by_job_id", Type: Long, Doc: "The ID of the job that scheduled this run (if applicable).", Example: nil},
	{Name: "clear_number", Type: Long, Required: true, Doc: "A counter incremented when tasks for this run are cleared.", Example: 0},
	{Name: "conf", Type: String, JSONText: true, Default: strPtr("{}"), Doc: "Configuration parameters passed to the DAG run as a dictionary.", Example: "{}"},
	{Name: "context_carrier", Type: String, JSONText: true, Default: strPtr("{}"), Doc: "Context information for distributed tracing (e.g., OpenTelemetry).", Example: "{}"},
	{Name: "backfill_id", Type: String, Doc: "Identifier if this run is part of a backfill job.", Example: nil},
	{Name: "bundle_version", Type: String, Doc: "Version of the DAG bundle, if applicable (e.g., for DAG versioning).", Example: nil},
	{Name: "created_dag_version_id", Type: String, Doc: "The version ID of the DAG definition used for this run, if versioning is enabled.", Example: "01967c74-15ca-76cc-a43b-24335120a6f1"},
	{Name: "error_message", Type: String, Doc: "Error message if the DAG run failed.", Example: nil},
}

// Airflow 3 task instances report start and end as the listener's own
// text rendering, so they stay plain strings.
var v3TaskInstanceFields = []Field{
	{Name: "dag_id", Type: String, Required: true, Doc: "The unique identifier for the DAG.", Example: "tutorial"},
	{Name: "task_id", Type: String, Required: true, Doc: "The unique identifier for the task within the DAG.", Example: "print_date"},
	{Name: "run_id", Type: String, Required: true, Doc: "The unique identifier for the DAG run this task instance belongs to.", Example: "manual__2025-04-30T19:08:23.655103+00:00"},
	{Name: "map_index", Type: Long, Required: true, Doc: "The map index if the task is dynamically mapped. Often -1 for non-mapped tasks.", Example: -1},
	{Name: "state", Type: String, Doc: "The current state of the task instance (e.g., 'queued', 'running', 'success', 'failed', 'skipped').", Example: "success"},
	{Name: "start_date", Type: String, Doc: "Timestamp when the task instance started execution (ISO 8601 format).", Example: "2025-04-30T19:08:25.123456+00:00"},
	{Name: "end_date", Type: String, Doc: "Timestamp when the task instance finished execution (ISO 8601 format).", Example: "2025-04-30T19:08:26.654321+00:00"},
	{Name: "duration", Type: Double, Doc: "Duration of the task instance execution in seconds.", Example: 1.530865},
	{Name: "try_number", Type: Long, Doc: "The attempt number for this task instance execution (1-based).", Example: 1},
	{Name: "hostname", Type: String, Doc: "Hostname of the worker that executed the task instance.", Example: "airflow-worker-0"},
	{Name: "unixname", Type: String, Doc: "Unix username running the task instance.", Example: "airflow"},
	{Name: "job_id", Type: String, Doc: "Identifier for the job associated with this task instance (e.g., LocalTaskJob ID).", Example: "42"},
	{Name: "pool", Type: String, Doc: "The pool assigned to the task instance.", Example: "default_pool"},
	{Name: "pool_slots", Type: Long, Doc: "Number of pool slots occupied by the task instance.", Example: 1},
	{Name: "queue", Type: String, Doc: "The queue assigned to the task instance (relevant for CeleryExecutor, etc.).", Example: "default"},
	{Name: "priority_weight", Type: Long, Doc: "Priority weight assigned to the task instance.", Example: 1},
	{Name: "operator", Type: String, Doc: "The class name of the Airflow operator used by the task.", Example: "BashOperator"},
	{Name: "queued_by_job_id", Type: String, Doc: "Identifier for the scheduler job that queued this task instance.", Example: "7"},
	{Name: "external_executor_id", Type: String, Doc: "Identifier used by external executors (e.g., Kubernetes pod name).", Example: nil},
}
