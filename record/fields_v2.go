package record

var v2DagRunFields = []Field{
	{Name: "dag_id", Type: String, Required: true, Doc: "The unique identifier for the DAG.", Example: "example_etl"},
	{Name: "run_id", Type: String, Required: true, Doc: "The unique identifier for this specific DAG run.", Example: "manual__2025-05-01T11:00:00+00:00"},
	{Name: "execution_date", Type: Timestamp, Required: true, Doc: "The logical date for which the DAG run is executing (ISO 8601 format).", Example: "2025-05-01T11:00:00+00:00"},
	{Name: "start_date", Type: Timestamp, Doc: "Timestamp when the DAG run actually started execution (ISO 8601 format).", Example: "2025-05-01T11:00:10.000+00:00"},
	{Name: "end_date", Type: Timestamp, Doc: "Timestamp when the DAG run finished execution (ISO 8601 format).", Example: "2025-05-01T11:25:30.000+00:00"},
	{Name: "data_interval_start", Type: Timestamp, Doc: "The start timestamp of the data interval covered by this DAG run (ISO 8601 format).", Example: "2025-05-01T10:00:00+00:00"},
	{Name: "data_interval_end", Type: Timestamp, Doc: "The end timestamp of the data interval covered by this DAG run (ISO 8601 format).", Example: "2025-05-01T11:00:00+00:00"},
	{Name: "last_scheduling_decision", Type: Timestamp, Doc: "Timestamp of the last scheduling decision made for this run (ISO 8601 format).", Example: "2025-05-01T10:59:55.000+00:00"},
	{Name: "queued_at", Type: Timestamp, Doc: "Timestamp when the DAG run was added to the queue (ISO 8601 format).", Example: "2025-05-01T10:59:50.000+00:00"},
	{Name: "updated_at", Type: Timestamp, Doc: "Timestamp when this DAG run record was last updated (ISO 8601 format).", Example: "2025-05-01T11:25:31.000+00:00"},
	{Name: "state", Type: String, Doc: "The current state of the DAG run (e.g., 'queued', 'running', 'success', 'failed').", Example: "success"},
	{Name: "run_type", Type: String, Required: true, Doc: "The type of the DAG run (e.g., 'scheduled', 'manual', 'backfill', 'dataset_triggered').", Example: "manual"},
	{Name: "external_trigger", Type: Boolean, Required: true, Doc: "Indicates if the DAG run was triggered externally (e.g., via API, CLI).", Example: true},
	{Name: "conf", Type: String, JSONText: true, Doc: "Configuration parameters passed to the DAG run as a dictionary.", Example: `{"param1": "value1", "retries": 2}`},
	{Name: "creating_job_id", Type: Long, Doc: "The ID of the SchedulerJob or BackfillJob that created this DAG run.", Example: nil},
	{Name: "dag_hash", Type: String, Doc: "A hash representing the structure of the DAG at the time of the run.", Example: "fedcba9876543210"},
	{Name: "clear_number", Type: Long, Doc: "A counter incremented when tasks for this run are cleared.", Example: 0},
}

var v2TaskInstanceFields = []Field{
	{Name: "dag_id", Type: String, Required: true, Doc: "The unique identifier for the DAG.", Example: "data_processing_pipeline"},
	{Name: "task_id", Type: String, Required: true, Doc: "The unique identifier for the Task within the DAG.", Example: "transform_records"},
	{Name: "run_id", Type: String, Required: true, Doc: "The unique identifier for the specific DAG run.", Example: "scheduled__2025-04-30T10:00:00+00:00"},
	{Name: "map_index", Type: Long, Required: true, Doc: "The map index for mapped tasks. -1 for non-mapped tasks.", Example: -1},
	{Name: "start_date", Type: Timestamp, Doc: "Timestamp when the task instance execution actually started.", Example: "2025-04-30T10:00:05.000+00:00"},
	{Name: "end_date", Type: Timestamp, Doc: "Timestamp when the task instance execution finished.", Example: "2025-04-30T10:02:30.000+00:00"},
	{Name: "duration", Type: Double, Doc: "Duration of the task instance execution in seconds.", Example: 145.0},
	{Name: "state", Type: String, Doc: "The current state of the task instance.", Example: "success"},
	{Name: "try_number", Type: Long, Required: true, Doc: "The current try number for this task instance execution.", Example: 1},
	{Name: "max_tries", Type: Long, Doc: "The maximum number of retries allowed for the task.", Example: 3},
	{Name: "hostname", Type: String, Doc: "Hostname of the worker that executed the task instance.", Example: "worker-node-5.example.com"},
	{Name: "unixname", Type: String, Doc: "Unix username running the task instance.", Example: "airflow"},
	{Name: "job_id", Type: Long, Doc: "The ID of the Airflow Job that executed this task instance (e.g., LocalTaskJob ID).", Example: 987},
	{Name: "pid", Type: Long, Doc: "The process ID (PID) of the worker process that executed the task.", Example: 54321},
	{Name: "operator", Type: String, Doc: "The class name of the operator used for this task instance.", Example: "PythonOperator"},
	{Name: "executor_config", Type: String, JSONText: true, Default: strPtr("{}"), Doc: "Executor-specific configuration dictionary.", Example: "{}"},
	{Name: "external_executor_id", Type: String, Doc: "Identifier used by external executors (like Celery task ID).", Example: nil},
	{Name: "pool", Type: String, Required: true, Doc: "The pool assigned to this task instance.", Example: "default_pool"},
	{Name: "pool_slots", Type: Long, Required: true, Doc: "The number of pool slots occupied by this task instance.", Example: 1},
	{Name: "queue", Type: String, Required: true, Doc: "The queue assigned to this task instance.", Example: "default"},
	{Name: "priority_weight", Type: Long, Required: true, Doc: "Priority weight of the task instance.", Example: 5},
	{Name: "queued_by_job_id", Type: Long, Doc: "The ID of the SchedulerJob that queued this task instance.", Example: 55},
	{Name: "queued_dttm", Type: Timestamp, Aliases: []string{"queued_when"}, Doc: "Timestamp when the task instance was queued.", Example: "2025-04-30T10:00:01.000+00:00"},
	{Name: "trigger_id", Type: Long, Doc: "The ID of the Trigger associated with this task instance if deferred.", Example: nil},
	{Name: "trigger_timeout", Type: Double, Doc: "Timeout duration for the trigger in seconds.", Example: nil},
	{Name: "next_method", Type: String, Doc: "The method to call when the trigger fires.", Example: nil},
	{Name: "next_kwargs", Type: String, JSONText: true, Doc: "Keyword arguments to pass to the next_method.", Example: nil},
	{Name: "updated_at", Type: Timestamp, Doc: "Timestamp when this task instance record was last updated.", Example: "2025-04-30T10:02:30.500+00:00"},
	{Name: "rendered_map_index", Type: Long, Doc: "The map index rendered in the templated fields.", Example: -1},
	{Name: "is_trigger_log_event", Type: Boolean, Doc: "Indicates if the log event is related to a trigger.", Example: false},
	{Name: "task_display_name", Type: String, Doc: "The display name for the task, potentially customized.", Example: "Transform Records"},
}
