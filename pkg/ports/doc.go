/*
Package ports defines the driven ports (interfaces) of the intake wizard.

These interfaces decouple the wizard core from external implementations, so the
same state machine runs against memory, files, Redis or SQL, and reports to
whatever notifier and host the caller wires in.

# Key Interfaces

  - StateStore: persists and loads in-progress wizard State.
  - DistributedLocker: coordinates concurrent access to a session across replicas.
  - ProjectStore: creates project records from a finished wizard.
  - Notifier: fire-and-forget user feedback.
  - Translator: key lookup for labels, titles and messages.
  - Host: callbacks into the embedding application on create and cancel.
*/
package ports
