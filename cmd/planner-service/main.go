package main

import (
	"flag"
	"os"

	"github.com/planora/weekplanner/internal/platform/logger"
	"github.com/planora/weekplanner/plannerservice"
)

func main() {
	// Optional build-target flag override (local | cloud)
	buildTarget := flag.String("build-target", "", "Override PLANNER_BUILD_TARGET (local, cloud)")
	flag.Parse()

	if *buildTarget != "" {
		_ = os.Setenv("PLANNER_BUILD_TARGET", *buildTarget)
	}

	if err := plannerservice.Run(); err != nil {
		log := logger.New("planner-service")
		log.Fatal().Err(err).Msg("service exited with error")
	}
}
