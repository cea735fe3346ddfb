package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"hostelcare/portal/internal/analysis"
	"hostelcare/portal/internal/complaint"
	"hostelcare/portal/internal/config"
	"hostelcare/portal/internal/events"
	"hostelcare/portal/internal/models"
	"hostelcare/portal/internal/notifications"
	"hostelcare/portal/internal/poller"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

const timeLayout = "2006-01-02 15:04"

func (a *app) listComplaints(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("complaints", flag.ContinueOnError)
	status := fs.String("status", complaint.All, "status filter")
	category := fs.String("category", complaint.All, "category filter")
	from := fs.String("from", "", "created on or after (YYYY-MM-DD)")
	to := fs.String("to", "", "created on or before (YYYY-MM-DD)")
	student := fs.String("student", "", "student name or roll number")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cr := complaint.Criteria{Status: *status, Category: *category, StudentQuery: strings.TrimSpace(*student)}
	var err error
	if cr.From, err = complaint.ParseDate(*from); err != nil {
		return fmt.Errorf("invalid -from: %w", err)
	}
	if cr.To, err = complaint.ParseDate(*to); err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}

	list, err := a.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	view := complaint.NewListView(config.DefaultPageSize)
	view.SetCriteria(cr)
	total := view.Render(list).TotalPages
	view.SetPage(*page, total)
	a.printPage(view.Render(list), view.Page)
	return nil
}

func (a *app) printPage(p complaint.Page, page int) {
	if p.TotalFiltered == 0 {
		fmt.Println(a.msg("no_complaints"))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tCATEGORY\tSTUDENT\tASSIGNED\tSUMMARY")
	for _, c := range p.Items {
		status := string(c.CurrentStatus)
		if c.IsReopened {
			status += " (reopened)"
		}
		if c.IsLockedForUpdates {
			status += " [locked]"
		}
		assigned := "-"
		if c.AssignedTo != nil {
			assigned = c.AssignedTo.Name
		}
		id := c.ID
		if !c.HasID() {
			id = "?"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			id, c.CreatedAt.Local().Format(timeLayout), status, analysis.CategoryLabel(c),
			studentLabel(c.Student), assigned, analysis.Headline(c))
	}
	w.Flush()
	fmt.Println(a.msg("page_summary", page, p.TotalPages, p.TotalFiltered))
}

func studentLabel(s models.StudentRef) string {
	switch {
	case s.Name != "" && s.RollNumber != "":
		return s.Name + " (" + s.RollNumber + ")"
	case s.Name != "":
		return s.Name
	case s.RollNumber != "":
		return s.RollNumber
	}
	return "-"
}

func (a *app) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: portal show <complaint_id>")
	}
	if _, err := a.store.LoadAll(ctx); err != nil {
		return err
	}

	d, err := a.store.OpenDetail(ctx, args[0])
	if err != nil {
		return err
	}

	c := d.Complaint
	fmt.Printf("Complaint %s\n", c.ID)
	fmt.Printf("  Category:  %s\n", analysis.CategoryLabel(c))
	fmt.Printf("  Status:    %s\n", c.CurrentStatus)
	fmt.Printf("  Student:   %s\n", studentLabel(c.Student))
	fmt.Printf("  Created:   %s\n", c.CreatedAt.Local().Format(timeLayout))
	if c.ResolvedAt != nil {
		fmt.Printf("  Resolved:  %s\n", c.ResolvedAt.Local().Format(timeLayout))
	}
	if c.AssignedTo != nil {
		fmt.Printf("  Assigned:  %s, %s %s\n", c.AssignedTo.Name, c.AssignedTo.Category, c.AssignedTo.Phone)
	}
	if c.Feedback != nil {
		verdict := "not satisfied"
		if c.Feedback.IsSatisfied {
			verdict = "satisfied"
		}
		fmt.Printf("  Feedback:  %s %s\n", verdict, c.Feedback.Comment)
	}
	fmt.Printf("\n%s\n\nTimeline:\n", c.Description)

	if d.Degraded {
		fmt.Println("  " + a.msg("timeline_fallback"))
	}
	for _, e := range d.Timeline {
		line := fmt.Sprintf("  %s  %-12s %s", e.Timestamp.Local().Format(timeLayout), e.Status, e.Note)
		if e.AssignedTo != nil {
			line += " (" + e.AssignedTo.Name + ")"
		}
		fmt.Println(line)
	}
	return nil
}

func (a *app) updateStatus(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New(`usage: portal status <complaint_id> <status> [-note TEXT] [-member ID]`)
	}
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	note := fs.String("note", "", "note for the timeline")
	member := fs.String("member", "", "staff member to assign")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}

	if _, err := a.store.LoadAll(ctx); err != nil {
		return err
	}
	if err := a.store.UpdateStatus(ctx, args[0], models.Status(args[1]), *note, *member); err != nil {
		return err
	}
	fmt.Println(a.msg("status_updated"))
	return nil
}

func (a *app) feedback(ctx context.Context, args []string) error {
	if len(args) < 2 || (args[1] != "satisfied" && args[1] != "unsatisfied") {
		return errors.New("usage: portal feedback <complaint_id> <satisfied|unsatisfied> [-comment TEXT]")
	}
	fs := flag.NewFlagSet("feedback", flag.ContinueOnError)
	comment := fs.String("comment", "", "optional comment")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}

	if _, err := a.store.LoadAll(ctx); err != nil {
		return err
	}
	if err := a.store.SubmitFeedback(ctx, args[0], args[1] == "satisfied", *comment); err != nil {
		return err
	}
	fmt.Println(a.msg("feedback_submitted"))
	return nil
}

func (a *app) raise(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("raise", flag.ContinueOnError)
	category := fs.String("category", "", "Canteen, Internet, Maintenance or Others")
	sub := fs.String("sub", "", "Housekeeping, Plumbing or Electricity (Maintenance only)")
	description := fs.String("description", "", "what is wrong")
	if err := fs.Parse(args); err != nil {
		return err
	}

	nc := models.NewComplaint{
		Category:    models.Category(*category),
		SubCategory: models.SubCategory(*sub),
		Description: *description,
	}
	if err := a.store.CreateComplaint(ctx, nc); err != nil {
		return err
	}
	fmt.Println(a.msg("complaint_submitted"))
	return nil
}

func (a *app) members(ctx context.Context) error {
	members, err := a.client.ListMembers(ctx)
	if err != nil {
		log.Printf("ERROR: %s: %v", a.msg("members_failed"), err)
		return err
	}

	grouped := complaint.GroupMembers(members)
	categories := make([]string, 0, len(grouped))
	for c := range grouped {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		fmt.Printf("%s:\n", cat)
		for _, m := range grouped[cat] {
			fmt.Printf("  %s  %s  %s\n", m.ID, m.Name, m.Phone)
		}
	}
	return nil
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	timeframe := fs.String("timeframe", string(analysis.TimeframeWeek), "week, month or all")
	from := fs.String("from", "", "created on or after (YYYY-MM-DD)")
	to := fs.String("to", "", "created on or before (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := analysis.Options{Timeframe: analysis.Timeframe(*timeframe)}
	var err error
	if opts.From, err = complaint.ParseDate(*from); err != nil {
		return fmt.Errorf("invalid -from: %w", err)
	}
	if opts.To, err = complaint.ParseDate(*to); err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}

	list, err := a.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	d := analysis.Compute(list, opts, now)

	fmt.Printf("Complaints: %d   Resolved: %d   Pending: %d   In progress: %d   Reopened: %d   Long pending: %d\n",
		d.Total, d.Resolved, d.Pending, d.InProgress, d.Reopened, d.LongPending)
	fmt.Printf("Avg resolution: %.1fd (7d: %s, 30d: %s)\n", d.AvgResolutionDays, days(d.AvgResolution7Days), days(d.AvgResolution30Days))

	fmt.Println("\nBy status:")
	for _, s := range models.Statuses {
		fmt.Printf("  %-12s %d\n", s, d.ByStatus[s])
	}
	fmt.Println("By category:")
	for _, label := range sortedKeys(d.ByCategory) {
		fmt.Printf("  %-12s %d\n", label, d.ByCategory[label])
	}

	printList := func(title string, list []models.Complaint) {
		fmt.Printf("%s:\n", title)
		if len(list) == 0 {
			fmt.Println("  None")
		}
		for _, c := range list {
			fmt.Printf("  #%s  %s  %dd  %s\n", shortID(c.ID), c.CurrentStatus, analysis.PendingDays(c, now), analysis.Headline(c))
		}
	}
	fmt.Println()
	printList("Long pending", d.HotZone.LongPending)
	printList("Reopened", d.HotZone.Reopened)
	printList("Unassigned", d.HotZone.Unassigned)
	printList("Feedback pending", d.HotZone.FeedbackPending)
	printList("Recent", d.Recent)
	if len(d.AwaitingTriage) == 0 {
		fmt.Println(a.msg("no_awaiting"))
	} else {
		printList("Awaiting triage", d.AwaitingTriage)
	}

	if a.role != models.RoleAdmin {
		return nil
	}
	a.printAdminPanels(ctx, list)
	return nil
}

// printAdminPanels shows the secondary panels. Each failure only hides its panel.
func (a *app) printAdminPanels(ctx context.Context, list []models.Complaint) {
	if n, err := a.client.StudentCount(ctx); err == nil {
		fmt.Printf("\nRegistered students: %d\n", n)
	} else {
		log.Printf("WARNING: student count unavailable: %v", err)
	}

	if members, err := a.client.ListMembers(ctx); err == nil && len(members) > 0 {
		fmt.Println("\nStaff workload:")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tCATEGORY\tASSIGNED\tRESOLVED\tRATE")
		for _, row := range analysis.Workload(members, list) {
			rate := "-"
			if row.Rate >= 0 {
				rate = fmt.Sprintf("%d%%", row.Rate)
			}
			fmt.Fprintf(w, "  %s\t%s\t%d\t%d\t%s\n", row.Member.Name, row.Member.Category, row.Assigned, row.Resolved, rate)
		}
		w.Flush()
	}

	announcements, err := a.client.ListAnnouncements(ctx, a.role)
	if err != nil {
		log.Printf("WARNING: announcements unavailable: %v", err)
	}
	polls, err := a.client.ListPolls(ctx)
	if err != nil {
		log.Printf("WARNING: polls unavailable: %v", err)
	}

	counts := analysis.PollCounts(polls)
	fmt.Printf("\nPolls: %d active, %d scheduled, %d ended\n",
		counts[models.PollActive], counts[models.PollScheduled], counts[models.PollEnded])

	if len(announcements) > config.AnnouncementsShown {
		announcements = announcements[:config.AnnouncementsShown]
	}
	fmt.Println("\nActivity:")
	for _, item := range analysis.Feed(list, announcements, polls) {
		line := fmt.Sprintf("  %s  %-12s %s", item.At.Local().Format(timeLayout), item.Kind, item.Text)
		if item.Status != "" {
			line += " [" + item.Status + "]"
		}
		if item.By != "" {
			line += " by " + item.By
		}
		fmt.Println(line)
	}
}

func (a *app) notifications(ctx context.Context, args []string) error {
	bell := notifications.NewBell(a.client)

	switch {
	case len(args) == 2 && args[0] == "read":
		return bell.MarkRead(ctx, args[1])
	case len(args) == 1 && args[0] == "read-all":
		return bell.MarkAllRead(ctx)
	case len(args) != 0:
		return errors.New("usage: portal notifications [read <id> | read-all]")
	}

	if err := bell.Refresh(ctx); err != nil {
		return err
	}
	fmt.Println(a.msg("unread_summary", bell.UnreadCount()))
	for _, n := range bell.Notifications() {
		fmt.Printf("  %s  %s  %s: %s\n", n.ID, n.CreatedAt.Local().Format(timeLayout), n.Title, n.Message)
	}
	return nil
}

// watch keeps the list and notifications fresh until interrupted: a poll every
// PollInterval, the bell every NotifyInterval, and an immediate reload when
// the backend's event stream reports a new complaint.
func (a *app) watch(ctx context.Context) error {
	stopWatch := a.store.Watch(a.bus, config.RequestTimeout)
	defer stopWatch()

	bell := notifications.NewBell(a.client)
	stopBell := bell.Run(ctx, a.cfg.NotifyInterval, a.bus)
	defer stopBell()

	unsubscribe := a.bus.Subscribe(models.TopicComplaintSubmitted, func(ev models.Event) {
		log.Printf("INFO: New complaint submitted (%s)", ev.ComplaintID)
	})
	defer unsubscribe()

	feed := &events.Feed{URL: eventsURL(a.cfg.APIBaseURL), Token: a.cfg.Token, Bus: a.bus}
	go func() {
		if err := feed.Run(ctx); err != nil {
			log.Printf("WARNING: Live updates unavailable, relying on polling: %v", err)
		}
	}()

	task := poller.Every(ctx, a.cfg.PollInterval, func(ctx context.Context) {
		list, err := a.store.LoadAll(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, a.describe(err))
		}
		fmt.Printf("[%s] %d complaints, %s\n", time.Now().Format("15:04:05"), len(list),
			a.msg("unread_summary", bell.UnreadCount()))
	})
	defer task.Stop()

	<-ctx.Done()
	return nil
}

func eventsURL(base string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws/events"
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[len(id)-6:]
	}
	return id
}

func days(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1fd", *v)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
