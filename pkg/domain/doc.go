/*
Package domain contains the core domain models of the intake wizard.

It defines the answer record a client fills in while describing a new website
project, the runtime snapshot of a wizard session and the payload handed to the
project store on submission. This package is kept pure and free of I/O, following
Hexagonal Architecture principles.

# Key Entities

  - Answers: the nested answer record (typed leaves, lazily allocated per-type details).
  - State: the runtime snapshot of a session (step cursor, answers, submission status).
  - Submission: the payload assembled from a State for the project store.
  - Project: the stored record returned by the project store.
*/
package domain
