package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

var (
	taskTitle       string
	taskDescription string
	taskAssignee    string
	taskStatus      string
	taskPriority    string
	taskDue         string
	taskFilter      string
)

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksUpdateCmd, tasksDeleteCmd, tasksBoardCmd)

	tasksListCmd.Flags().StringVar(&taskFilter, "status", "", "Only show tasks with this status")

	for _, c := range []*cobra.Command{tasksAddCmd, tasksUpdateCmd} {
		c.Flags().StringVar(&taskTitle, "title", "", "Task title")
		c.Flags().StringVar(&taskDescription, "description", "", "Task description")
		c.Flags().StringVar(&taskAssignee, "assignee", "", "Who the task is assigned to")
		c.Flags().StringVar(&taskStatus, "status", "", "pending, active or complete")
		c.Flags().StringVar(&taskPriority, "priority", "", "low, medium or high")
		c.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
	}
	_ = tasksAddCmd.MarkFlagRequired("title")
	_ = tasksAddCmd.MarkFlagRequired("due")
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage the task board",
	Long: `Manage the task board.

Examples:
  medops tasks list --status pending
  medops tasks add --title "Restock ward 3" --assignee "Emily Chen" --priority high --due 2025-04-01
  medops tasks update 3 --status complete
  medops tasks delete 3`,
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var tasks []domain.Task
		if err := newClient().do(http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
			return err
		}
		if taskFilter != "" {
			filtered := tasks[:0]
			for _, t := range tasks {
				if string(t.Status) == taskFilter {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), tasks)
		}
		printTasks(cmd, tasks)
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a task",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		due, err := parseDay(taskDue)
		if err != nil {
			return err
		}
		in := domain.TaskInput{
			Title:       taskTitle,
			Description: taskDescription,
			Assignee:    taskAssignee,
			Status:      domain.TaskStatus(taskStatus),
			Priority:    domain.Priority(taskPriority),
			DueDate:     due,
		}
		var created domain.Task
		if err := newClient().do(http.MethodPost, "/api/tasks", in, &created); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Task created: %s\n", created.ID)
		return nil
	},
}

var tasksUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch domain.TaskPatch
		flags := cmd.Flags()
		if flags.Changed("title") {
			patch.Title = &taskTitle
		}
		if flags.Changed("description") {
			patch.Description = &taskDescription
		}
		if flags.Changed("assignee") {
			patch.Assignee = &taskAssignee
		}
		if flags.Changed("status") {
			s := domain.TaskStatus(taskStatus)
			patch.Status = &s
		}
		if flags.Changed("priority") {
			p := domain.Priority(taskPriority)
			patch.Priority = &p
		}
		if flags.Changed("due") {
			due, err := parseDay(taskDue)
			if err != nil {
				return err
			}
			patch.DueDate = &due
		}

		var updated domain.Task
		if err := newClient().do(http.MethodPatch, "/api/tasks/"+url.PathEscape(args[0]), patch, &updated); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Task %s updated (%s)\n", updated.ID, updated.Status)
		return nil
	},
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().do(http.MethodDelete, "/api/tasks/"+url.PathEscape(args[0]), nil, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Task %s deleted\n", args[0])
		return nil
	},
}

var tasksBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show tasks grouped by status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var board map[domain.TaskStatus][]domain.Task
		if err := newClient().do(http.MethodGet, "/api/board", nil, &board); err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), board)
		}
		for _, s := range domain.TaskStatuses {
			fmt.Fprintf(cmd.OutOrStdout(), "== %s (%d)\n", s, len(board[s]))
			for _, t := range board[s] {
				fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s  %s, due %s\n", t.Priority, t.Title, t.Assignee, formatDay(t.DueDate))
			}
		}
		return nil
	},
}

func printTasks(cmd *cobra.Command, tasks []domain.Task) {
	w := newTable(cmd.OutOrStdout(), "ID\tTITLE\tASSIGNEE\tSTATUS\tPRIORITY\tDUE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Assignee, t.Status, t.Priority, formatDay(t.DueDate))
	}
	w.Flush()
}
