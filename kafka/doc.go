// Package kafka is the relay's Kafka producer.
//
// One *KafkaClient is shared by every request. It wraps an asynchronous
// segmentio/kafka-go Writer: Enqueue only admits a message to the writer's
// buffer, and Flush waits, up to a timeout, for the messages admitted
// before it to be acknowledged or failed.
//
// # Architecture
//
//   - Publisher interface: Enqueue, Flush, TranslateError, GracefulShutdown
//   - KafkaClient struct: concrete implementation of Publisher
//   - DeliveryObserver: per-message outcome hook called from the writer's
//     completion callback
//   - FX module provides both *KafkaClient and Publisher
//
// # Basic Usage
//
//	client, err := kafka.NewClient(ctx, kafka.Config{
//		Brokers: []string{"localhost:9092"},
//	})
//	if err != nil {
//		return err
//	}
//	defer client.GracefulShutdown()
//
//	err = client.Enqueue(ctx, kafka.Message{
//		Topic: "airflow.dag_run",
//		Key:   []byte(`{"dag_id":"etl"}`),
//		Value: payload,
//	})
//	if err != nil {
//		return err
//	}
//	if pending := client.Flush(10 * time.Second); pending > 0 {
//		// outcome unknown: the messages may still arrive
//	}
//
// # Flush semantics
//
// Every admitted message gets a sequence number carried in
// kafka.Message.WriterData. Flush snapshots the latest sequence number and
// returns the count of messages at or below it that have not completed
// when the timeout fires. A message failing after Flush returned zero is
// reported to the DeliveryObserver and the logger only.
//
// # Security
//
// PLAINTEXT by default. TLS and SASL (PLAIN, SCRAM-SHA-256, SCRAM-SHA-512)
// follow TLSConfig and SASLConfig. Setting MSK.Region switches to AWS MSK
// IAM over TLS with credentials from the default AWS chain.
//
// # Error Handling
//
// TranslateError maps broker and transport errors onto the sentinels in
// errors.go; IsRetryableError, IsPermanentError and IsAuthenticationError
// classify them.
package kafka
