/*
Package intake is a multi-step project intake wizard for a website-building service.

The wizard owns the step cursor, the nested answer record, submit-time gating and the
assembly of the submission handed to a project store. Persistence, notifications,
localization and host callbacks are collaborators behind the interfaces in pkg/ports,
so the same Service drives the terminal wizard, the HTTP API and the MCP tools.

# Concept

A wizard session walks the steps of a layout ("classic" with nine steps, "detailed"
with twelve). Navigation moves one step at a time and never validates; only Submit is
gated on the layout's required fields. Answers are addressed by dotted paths such as
"socialMedia.facebook" or "ecommerceDetails.categories".

Submit is the single suspension point. The session is marked as submitting under its
lock, the project store is called outside of it, and the result is only applied when
the submit generation is still current.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/intake"
		"github.com/aretw0/intake/pkg/adapters/memory"
	)

	func main() {
		ctx := context.Background()
		svc := intake.New(intake.WithProjectStore(memory.NewProjectStore()))

		state, err := svc.Start(ctx, "session-123", "client-1", "classic", "en")
		if err != nil {
			log.Fatal(err)
		}

		if _, err := svc.SetFields(ctx, "session-123", map[string]any{
			"name":        "Corner Bakery",
			"description": "Website for a neighbourhood bakery",
		}); err != nil {
			log.Fatal(err)
		}

		for state.CurrentStep < state.TotalSteps {
			if state, err = svc.Next(ctx, "session-123"); err != nil {
				log.Fatal(err)
			}
		}

		state, err = svc.Submit(ctx, "session-123")
		if err != nil {
			log.Fatal(err)
		}
		log.Println("created project", state.ProjectID)
	}
*/
package intake
