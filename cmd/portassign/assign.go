package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dcos/portassign/assigner"
	"github.com/dcos/portassign/assigner/errors"
	"github.com/dcos/portassign/identity"
	"github.com/dcos/portassign/log"
	"github.com/dcos/portassign/params"
	humanize "github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	assignCmd = &cobra.Command{
		Use:   "assign [task-id...]",
		Short: "Assign listen ports to tasks and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			p, err := loadParams(flags)
			if err != nil {
				return err
			}
			generate, err := flags.GetInt("generate")
			if err != nil {
				return err
			}
			release, err := flags.GetStringSlice("release")
			if err != nil {
				return err
			}
			quiet, err := flags.GetBool("quiet")
			if err != nil {
				return err
			}

			taskIDs := append([]string(nil), args...)
			for i := 0; i < generate; i++ {
				taskIDs = append(taskIDs, identity.NewID())
			}
			if len(taskIDs) == 0 {
				return fmt.Errorf("assign needs at least one task id, or --generate")
			}

			ctx := log.WithModule(context.Background(), "portassign")
			a := assigner.Get(ctx, p)
			return runAssign(ctx, cmd.OutOrStdout(), a, taskIDs, release, quiet)
		},
	}
)

func init() {
	flags := assignCmd.Flags()
	flags.StringP("config", "c", "", "YAML file of assigner parameters")
	flags.IntP("generate", "g", 0, "Number of tasks with random ids to assign")
	flags.StringSlice("release", nil, "Task ids to release once assignment is done")
	flags.BoolP("quiet", "q", false, "Only display task ids and ports")
	params.AddFlags(flags)
}

// loadParams reads the --config file, if any, and overlays the parameter
// flags set on the command line.
func loadParams(flags *pflag.FlagSet) (params.Parameters, error) {
	path, err := flags.GetString("config")
	if err != nil {
		return params.Parameters{}, err
	}

	base := params.Parameters{}
	if path != "" {
		if base, err = params.LoadFile(path); err != nil {
			return params.Parameters{}, err
		}
	}
	return params.FromFlags(flags, base)
}

func runAssign(ctx context.Context, w io.Writer, a *assigner.InputAssigner, taskIDs, release []string, quiet bool) error {
	eventq, cancel := a.Watch()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev := <-eventq:
				if e, ok := ev.(assigner.Event); ok {
					log.G(ctx).WithFields(logrus.Fields{
						"task.id": e.Assignment.TaskID,
						"ports":   e.Assignment.Ports,
					}).Debugf("port %s", e.Action)
				}
			case <-done:
				return
			}
		}
	}()
	defer func() {
		close(done)
		cancel()
	}()

	var failed []string
	for _, id := range taskIDs {
		if _, err := a.AssignPort(id); err != nil {
			log.G(ctx).WithError(err).WithField("task.id", id).Error("port assignment failed")
			failed = append(failed, id)
		}
	}
	for _, id := range release {
		if err := a.Release(id); err != nil {
			if !errors.IsErrNotFound(err) {
				return err
			}
			log.G(ctx).WithField("task.id", id).Warn("release of unassigned task")
		}
	}

	printAssignments(w, a.Assignments(), quiet)

	if len(failed) != 0 {
		return fmt.Errorf("failed to assign ports to %d task(s): %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

func printAssignments(w io.Writer, assignments []*assigner.PortAssignment, quiet bool) {
	if quiet {
		for _, pa := range assignments {
			fmt.Fprintf(w, "%s %s\n", pa.TaskID, formatPorts(pa.Ports))
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer func() {
		// Ignore flushing errors - there's nothing we can do.
		_ = tw.Flush()
	}()
	fmt.Fprintln(tw, "TASK\tPORT\tMODE\tASSIGNED")
	for _, pa := range assignments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			pa.TaskID,
			formatPorts(pa.Ports),
			pa.Mode,
			humanize.Time(pa.AssignedAt),
		)
	}
}

func formatPorts(ports []uint16) string {
	s := make([]string, len(ports))
	for i, p := range ports {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ",")
}
