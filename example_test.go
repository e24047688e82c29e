package questline_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/questline"
	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/requirements"
	"github.com/aretw0/questline/pkg/scenario"
)

// ExampleNew_builder demonstrates how to use questline purely as a Go library,
// building the scenario in code instead of reading it from the filesystem.
func ExampleNew_builder() {
	b := scenario.New()
	b.Start("gate").Go("crossroads")
	b.Choice("crossroads").
		Option("left", "forest", "Take the left path").
		Option("right", "castle", "Take the right path", requirements.Exists{UID: "key"})
	b.Finish("forest")
	b.Finish("castle")
	b.Fact(domain.Entity{ID: "key", Type: "item"})

	hooks := domain.LifecycleHooks{
		OnStateEnter: func(s domain.State) { fmt.Println("entered", s.UID()) },
	}

	eng, err := questline.New(context.Background(), "", questline.WithLoader(b), questline.WithLifecycleHooks(hooks))
	if err != nil {
		log.Fatal(err)
	}

	if _, err := eng.StepUntilCan(); err != nil && !errors.Is(err, domain.ErrNoJumpsAvailable) {
		log.Fatal(err)
	}

	point, err := eng.NearestChoice()
	if err != nil {
		log.Fatal(err)
	}
	for _, o := range point.Options {
		fmt.Printf("option %s: %s\n", o.UID(), o.Label)
	}

	if err := eng.Choose("crossroads", "right"); err != nil {
		log.Fatal(err)
	}
	if _, err := eng.StepUntilCan(); err != nil {
		log.Fatal(err)
	}

	done, _ := eng.IsProcessed()
	fmt.Println("finished:", done)

	// Output:
	// entered gate
	// entered crossroads
	// option left: Take the left path
	// option right: Take the right path
	// entered castle
	// finished: true
}
