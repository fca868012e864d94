// Command server runs the iamcore runtime: eventstore, CQRS buses, and
// projection workers, wired together with go.uber.org/fx.
package main

import (
	"github.com/coreidentity/iamcore/internal"
	"github.com/coreidentity/iamcore/pkg/application"
	"github.com/coreidentity/iamcore/pkg/infrastructure"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		infrastructure.InfrastructureModule,
		application.ApplicationModule,
		internal.InternalModule,
	)
	app.Run()
}
