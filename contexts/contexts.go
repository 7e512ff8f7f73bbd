package contexts

import (
	"io"

	"github.com/bioinformaticsguy/sandbox-launchpad/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type (
	// "Helper" Context handed to every command, carrying
	// the resolved configuration and the run's logger
	RunContext struct {
		Config *models.Config
		RunId  uuid.UUID
		Logger *logrus.Entry
	}
)

func NewRunContext(cfg *models.Config, logOutput io.Writer) *RunContext {
	logger := logrus.New()
	logger.SetOutput(logOutput)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	runId := uuid.New()

	return &RunContext{
		Config: cfg,
		RunId:  runId,
		Logger: logger.WithField("runId", runId.String()),
	}
}
