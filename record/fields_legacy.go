package record

// Legacy payloads carry every timestamp as plain text.

var legacyDagRunFields = []Field{
	{Name: "dag_id", Type: String, Required: true, Doc: "The identifier of the DAG.", Example: "example_etl"},
	{Name: "run_id", Type: String, Required: true, Doc: "The identifier for this specific run of the DAG.", Example: "manual__2025-05-01T11:00:00+00:00"},
	{Name: "run_type", Type: String, Required: true, Doc: "The type classification of the DAG run (e.g., 'manual', 'scheduled').", Example: "manual"},
	{Name: "state", Type: String, Doc: "The current state of the DAG run (e.g., 'queued', 'running', 'success', 'failed'). Optional.", Example: "running"},
	{Name: "queued_at", Type: String, Doc: "Timestamp (ISO 8601 format preferred) when the run was added to the queue. Optional.", Example: "2025-05-01T10:59:50.000+00:00"},
	{Name: "execution_date", Type: String, Doc: "The logical date/time for which the DAG run is executing (ISO 8601 format preferred). Optional.", Example: "2025-05-01T11:00:00+00:00"},
	{Name: "start_date", Type: String, Doc: "Timestamp (ISO 8601 format preferred) when the run actually started execution. Optional.", Example: "2025-05-01T11:00:10.000+00:00"},
	{Name: "end_date", Type: String, Doc: "Timestamp (ISO 8601 format preferred) when the run finished execution. Optional.", Example: nil},
	{Name: "data_interval_start", Type: String, Doc: "Start timestamp (ISO 8601 format preferred) of the data interval covered by this run. Optional.", Example: "2025-05-01T10:00:00+00:00"},
	{Name: "data_interval_end", Type: String, Doc: "End timestamp (ISO 8601 format preferred) of the data interval covered by this run. Optional.", Example: "2025-05-01T11:00:00+00:00"},
	{Name: "external_trigger", Type: Boolean, Doc: "Flag indicating if the run was triggered externally (e.g., via API). Optional.", Example: true},
	{Name: "conf", Type: String, JSONText: true, Doc: "Configuration object passed to the DAG run, typically serialized as a JSON string. Optional.", Example: `{"param1": "value1"}`},
	{Name: "dag_hash_info", Type: String, Doc: "Information related to the DAG's version or hash at the time of the run. Optional.", Example: "fedcba9876543210"},
	{Name: "msg", Type: String, Doc: "An optional descriptive message associated with the event or state change. Optional.", Example: nil},
}

var legacyTaskInstanceFields = []Field{
	{Name: "dag_id", Type: String, Required: true, Doc: "The identifier of the DAG containing the task.", Example: "example_etl"},
	{Name: "task_id", Type: String, Required: true, Doc: "The identifier of the task within the DAG.", Example: "extract"},
	{Name: "run_id", Type: String, Required: true, Doc: "The identifier for the specific DAG run associated with this task instance.", Example: "manual__2025-05-01T11:00:00+00:00"},
	{Name: "max_index", Type: Int, Required: true, Doc: "The map index for mapped task instances. -1 indicates it's not a mapped task instance.", Example: -1},
	{Name: "state", Type: String, Doc: "The current state of the task instance (e.g., 'queued', 'running', 'success', 'failed', 'skipped'). Optional.", Example: "success"},
	{Name: "start_date", Type: String, Doc: "Timestamp (ISO 8601 format preferred) when the task instance started execution. Optional.", Example: "2025-05-01T11:00:12.000+00:00"},
	{Name: "end_date", Type: String, Doc: "Timestamp (ISO 8601 format preferred) when the task instance finished execution. Optional.", Example: "2025-05-01T11:02:30.000+00:00"},
	{Name: "duration", Type: Float, Doc: "Duration of the task instance execution in seconds. Optional.", Example: 138.0},
	{Name: "try_number", Type: Int, Doc: "The attempt number for this task instance execution (1-based). Optional.", Example: 1},
	{Name: "hostname", Type: String, Doc: "Hostname of the worker machine that executed the task instance. Optional.", Example: "worker-1"},
	{Name: "unixname", Type: String, Doc: "The Unix username under which the task process ran. Optional.", Example: "airflow"},
	{Name: "job_id", Type: String, Doc: "Identifier of the Airflow Job (e.g., LocalTaskJob, CeleryExecutor task ID) that ran the task instance. Optional.", Example: "101"},
	{Name: "pool", Type: String, Doc: "The resource pool used by the task instance. Optional.", Example: "default_pool"},
	{Name: "pool_slots", Type: Int, Doc: "The number of slots in the pool occupied by this task instance. Optional.", Example: 1},
	{Name: "queue", Type: String, Doc: "The queue the task instance was assigned to (relevant for executors like Celery). Optional.", Example: "default"},
	{Name: "priority_weight", Type: Int, Doc: "The priority weight assigned to the task instance. Optional.", Example: 1},
	{Name: "operator", Type: String, Doc: "The class name of the Airflow operator corresponding to the task. Optional.", Example: "PythonOperator"},
	{Name: "queued_by_job_id", Type: String, Doc: "Identifier of the job that queued the task instance (e.g., SchedulerJob ID). Optional.", Example: "55"},
	{Name: "external_executor_id", Type: String, Doc: "An identifier assigned by an external execution system (e.g., Kubernetes pod name). Optional.", Example: nil},
}
