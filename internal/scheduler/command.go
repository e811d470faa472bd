package scheduler

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/arrowkit/flowcore/internal/domain"
)

// AssembleResult is the outcome of building an argv for a WorkOrder.
type AssembleResult struct {
	Args []string
	// OK is false when a recognized option could not be satisfied from
	// the WorkOrder; the worker should skip the order rather than spawn
	// a half-formed command.
	OK bool
}

// Assemble builds the arguments passed to the configured build tool to
// invoke an external script: "run --bin {script_name} -- {flags}". The
// returned Args do not include the build tool name itself. configName is the configuration path the worker itself was started
// with, passed through so child scripts share it.
func Assemble(buildTool string, order domain.WorkOrder, configName string, logger *slog.Logger) AssembleResult {
	args := []string{"run", "--bin", order.ScriptName, "--"}

	tokens := []string{}
	if order.ScriptParams != nil {
		tokens = strings.Fields(*order.ScriptParams)
	}

	for _, tok := range tokens {
		switch tok {
		case "--topic_id":
			if order.SubjectID == nil {
				logger.Warn("invalid topic id found while parsing command opts, re-configure")
				return AssembleResult{OK: false}
			}
			args = append(args, "--topic_id", strconv.FormatInt(*order.SubjectID, 10))
		case "--job_step_id":
			args = append(args, "--job_step_id", strconv.FormatInt(order.JobStepID, 10))
		case "--config":
			args = append(args, "--config", configName)
		case "--input_dir":
			if order.InPath == nil {
				logger.Warn("invalid input path found while parsing command opts, re-configure")
				return AssembleResult{OK: false}
			}
			args = append(args, "--input_dir", *order.InPath)
		case "--output_dir":
			if order.OutPath == nil {
				logger.Warn("invalid output path found while parsing command opts, re-configure")
				return AssembleResult{OK: false}
			}
			args = append(args, "--output_dir", *order.OutPath)
		default:
			logger.Warn("DEFAULT found while parsing command opts", "token", tok)
		}
	}

	return AssembleResult{Args: args, OK: true}
}
