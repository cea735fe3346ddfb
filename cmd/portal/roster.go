package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"hostelcare/portal/internal/models"
	"hostelcare/portal/internal/roster"
	"log"
	"os"
	"text/tabwriter"
)

// students lists the roster, or adds, edits, deletes students and shows
// those still on a generated password.
func (a *app) students(ctx context.Context, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "add":
			return a.addStudent(ctx, args[1:])
		case "edit":
			return a.editStudent(ctx, args[1:])
		case "delete":
			if len(args) != 2 {
				return errors.New("usage: students delete <student_id>")
			}
			if err := a.client.DeleteStudent(ctx, args[1]); err != nil {
				return err
			}
			fmt.Println(a.msg("student_deleted"))
			return nil
		case "pending":
			return a.pendingStudents(ctx)
		}
	}

	fs := flag.NewFlagSet("students", flag.ContinueOnError)
	search := fs.String("search", "", "name or roll number")
	course := fs.String("course", "", "B.Tech, Diploma, Pharmacy or Degree")
	branch := fs.String("branch", "", "branch within the course")
	room := fs.String("room", "", "room number")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.client.ListStudents(ctx, models.StudentFilter{
		Page: *page, Search: *search, Course: *course, Branch: *branch, RoomNumber: *room,
	})
	if err != nil {
		log.Printf("ERROR: Failed to fetch students: %v", err)
		return err
	}
	if len(result.Students) == 0 {
		fmt.Println(a.msg("no_students"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROLL\tNAME\tCOURSE\tYEAR\tBRANCH\tROOM\tPHONE")
	for _, st := range result.Students {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", st.ID, st.RollNumber, st.Name,
			st.Course, st.Year, st.Branch, st.RoomNumber, st.StudentPhone)
	}
	w.Flush()
	fmt.Println(a.msg("student_page", *page, max(result.TotalPages, 1)))
	return nil
}

func studentFlags(name string) (*flag.FlagSet, *models.StudentInput) {
	in := &models.StudentInput{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&in.Name, "name", "", "full name")
	fs.StringVar(&in.RollNumber, "roll", "", "roll number")
	fs.StringVar(&in.Course, "course", "", "B.Tech, Diploma, Pharmacy or Degree")
	fs.StringVar(&in.Year, "year", "", "year of study")
	fs.StringVar(&in.Branch, "branch", "", "branch within the course")
	fs.StringVar(&in.RoomNumber, "room", "", "room number")
	fs.StringVar(&in.StudentPhone, "phone", "", "student phone, 10 digits")
	fs.StringVar(&in.ParentPhone, "parent-phone", "", "parent phone, 10 digits")
	return fs, in
}

func (a *app) addStudent(ctx context.Context, args []string) error {
	fs, in := studentFlags("students add")
	if err := fs.Parse(args); err != nil {
		return err
	}
	valid, err := roster.ValidateStudent(*in)
	if err != nil {
		return err
	}

	password, err := a.client.AddStudent(ctx, valid)
	if err != nil {
		return err
	}
	fmt.Println(a.msg("student_added", valid.RollNumber, password))
	return nil
}

// editStudent sends the full profile; every flag must be given.
func (a *app) editStudent(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: students edit <student_id> -name ... -roll ...")
	}
	fs, in := studentFlags("students edit")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	valid, err := roster.ValidateStudent(*in)
	if err != nil {
		return err
	}

	if err := a.client.UpdateStudent(ctx, args[0], valid); err != nil {
		return err
	}
	fmt.Println(a.msg("student_updated"))
	return nil
}

func (a *app) pendingStudents(ctx context.Context) error {
	list, err := a.client.TempStudents(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println(a.msg("no_pending_passwords"))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROLL\tNAME\tPHONE\tPASSWORD\tADDED")
	for _, st := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", st.RollNumber, st.Name, st.StudentPhone,
			st.GeneratedPassword, st.CreatedAt.Local().Format(timeLayout))
	}
	return w.Flush()
}

// announcements lists announcements, or posts or deletes one.
func (a *app) announcements(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "post" {
		fs := flag.NewFlagSet("announcements post", flag.ContinueOnError)
		var in models.AnnouncementInput
		fs.StringVar(&in.Title, "title", "", "headline")
		fs.StringVar(&in.Description, "description", "", "body text")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		valid, err := roster.ValidateAnnouncement(in)
		if err != nil {
			return err
		}
		if err := a.client.PostAnnouncement(ctx, valid); err != nil {
			return err
		}
		fmt.Println(a.msg("announcement_posted"))
		return nil
	}
	if len(args) > 0 && args[0] == "delete" {
		if len(args) != 2 {
			return errors.New("usage: announcements delete <announcement_id>")
		}
		if err := a.client.DeleteAnnouncement(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println(a.msg("announcement_deleted"))
		return nil
	}

	list, err := a.client.ListAnnouncements(ctx, a.role)
	if err != nil {
		return err
	}
	for _, an := range list {
		fmt.Printf("%s  %s  %s\n  %s\n", an.ID, an.CreatedAt.Local().Format(timeLayout), an.Title, an.Description)
	}
	return nil
}
