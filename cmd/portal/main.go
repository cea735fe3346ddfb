package main

import (
	"context"
	"fmt"
	"hostelcare/portal/internal/api"
	"hostelcare/portal/internal/complaint"
	"hostelcare/portal/internal/config"
	"hostelcare/portal/internal/events"
	"hostelcare/portal/internal/localization"
	"hostelcare/portal/internal/models"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const usage = `Usage: portal <command> [args]

Commands:
  complaints [-status S] [-category C] [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-student Q] [-page N]
  show <complaint_id>
  status <complaint_id> <Received|Pending|"In Progress"|Resolved> [-note TEXT] [-member ID]
  feedback <complaint_id> <satisfied|unsatisfied> [-comment TEXT]
  raise -category C [-sub S] -description TEXT
  members
  students [-search Q] [-course C] [-branch B] [-room R] [-page N]
  students add -name N -roll R -course C -year Y -branch B -room R -phone P -parent-phone P
  students edit <student_id> (same flags as add)
  students delete <student_id> | students pending
  announcements [post -title T -description D | delete <announcement_id>]
  dashboard [-timeframe week|month|all] [-from YYYY-MM-DD] [-to YYYY-MM-DD]
  notifications [read <id> | read-all]
  watch`

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	role   models.Role
	client *api.Client
	bus    *events.Bus
	store  *complaint.Store
	loc    *localization.Localizer
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	loc, err := localization.Default()
	if err != nil {
		log.Fatalf("Failed to load localization: %v", err)
	}

	role := models.Role(cfg.Role)
	client := api.NewClient(cfg.APIBaseURL, cfg.Token)
	bus := events.NewBus()
	defer bus.Close()

	a := &app{
		cfg:    cfg,
		role:   role,
		client: client,
		bus:    bus,
		store:  complaint.NewStore(client, role, bus),
		loc:    loc,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, args := os.Args[1], os.Args[2:]
	switch command {
	case "complaints":
		err = a.listComplaints(ctx, args)
	case "show":
		err = a.show(ctx, args)
	case "status":
		err = a.updateStatus(ctx, args)
	case "feedback":
		err = a.feedback(ctx, args)
	case "raise":
		err = a.raise(ctx, args)
	case "members":
		err = a.members(ctx)
	case "students":
		err = a.students(ctx, args)
	case "announcements":
		err = a.announcements(ctx, args)
	case "dashboard":
		err = a.dashboard(ctx, args)
	case "notifications":
		err = a.notifications(ctx, args)
	case "watch":
		err = a.watch(ctx)
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, a.describe(err))
		os.Exit(1)
	}
}
