package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/careerhub-api/internal/bootstrap"
	"github.com/yourusername/careerhub-api/internal/config"
	"github.com/yourusername/careerhub-api/internal/dashboard"
	"github.com/yourusername/careerhub-api/internal/identity"
	"github.com/yourusername/careerhub-api/internal/model"
	"github.com/yourusername/careerhub-api/internal/repository"
	"github.com/yourusername/careerhub-api/internal/session"
)

func main() {
	var (
		email    string
		password string
		jobID    string
		signUp   bool
		reset    bool
	)
	flag.StringVar(&email, "email", "", "account email")
	flag.StringVar(&password, "password", os.Getenv("CAREERHUB_PASSWORD"), "account password (or CAREERHUB_PASSWORD)")
	flag.StringVar(&jobID, "job", "", "company only: print scored applicants for this job")
	flag.BoolVar(&signUp, "signup", false, "create the account before signing in")
	flag.BoolVar(&reset, "reset", false, "send a password reset email and exit")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if email == "" {
		log.Fatal().Msg("-email is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, email, password, jobID, signUp, reset); err != nil {
		log.Fatal().Err(err).Msg("Dashboard failed")
	}
}

func run(ctx context.Context, cfg *config.Config, email, password, jobID string, signUp, reset bool) error {
	accounts := identity.NewClient(cfg.FirebaseAPIKey)
	if reset {
		if err := accounts.SendPasswordReset(ctx, email); err != nil {
			return err
		}
		fmt.Printf("Password reset email sent to %s\n", email)
		return nil
	}

	signIn := accounts.SignIn
	if signUp {
		signIn = accounts.SignUp
	}
	cred, err := signIn(ctx, email, password)
	if err != nil {
		return err
	}

	app, err := identity.NewApp(ctx, cfg.FirebaseProjectID, cfg.StorageBucket)
	if err != nil {
		return err
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("initializing auth: %w", err)
	}
	token, err := authClient.VerifyIDToken(ctx, cred.IDToken)
	if err != nil {
		return fmt.Errorf("verifying credential: %w", err)
	}

	docs, err := bootstrap.OpenStore(ctx, cfg, app)
	if err != nil {
		return err
	}
	defer docs.Close()

	user, err := repository.NewUserRepo(docs).FindByUID(ctx, token.UID)
	if err != nil {
		return err
	}
	if user == nil || user.Role == "" {
		fmt.Printf("Signed in as %s. No role assigned yet; ask an administrator.\n", email)
		return nil
	}

	sess := session.New()
	sess.SignIn(session.Principal{UID: token.UID, Email: email, Role: user.Role, IDToken: cred.IDToken})
	defer sess.SignOut()

	confirm := stdinConfirmer{in: bufio.NewReader(os.Stdin), out: os.Stdout}
	out := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer out.Flush()

	switch user.Role {
	case model.RoleAdmin:
		d := dashboard.NewAdmin(sess, docs, confirm)
		if err := d.Load(ctx); err != nil {
			return err
		}
		s := d.Stats()
		fmt.Fprintf(out, "Users\t%d\t(students %d, companies %d, institutes %d)\n", s.Users, s.Students, s.Companies, s.Institutes)
		fmt.Fprintf(out, "Institutions\t%d\n", s.Institutions)
		fmt.Fprintf(out, "Courses\t%d\n", s.Courses)
		fmt.Fprintf(out, "Jobs\t%d\n", s.Jobs)
		fmt.Fprintf(out, "Applications\t%d\t(pending %d)\n", s.Applications, s.PendingApplications)

	case model.RoleInstitute:
		d := dashboard.NewInstitute(sess, docs, confirm)
		if err := d.Load(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Institution\t%s\n", d.Institution.Name)
		fmt.Fprintf(out, "Faculties\t%d\n", len(d.Faculties))
		fmt.Fprintf(out, "Courses\t%d\n", len(d.Courses))
		fmt.Fprintf(out, "Admissions\t%d\n", len(d.Admissions))
		fmt.Fprintln(out, "\nSTUDENT\tCOURSE\tSTATUS")
		for _, a := range d.Applications {
			a = d.Directory.Resolve(a)
			fmt.Fprintf(out, "%s\t%s\t%s\n", a.StudentName, a.CourseName, a.Status)
		}

	case model.RoleCompany:
		blobs, err := bootstrap.OpenBlobs(ctx, cfg, app)
		if err != nil {
			return err
		}
		d := dashboard.NewCompany(sess, docs, blobs, confirm)
		if err := d.Load(ctx); err != nil {
			return err
		}
		if jobID == "" {
			fmt.Fprintln(out, "JOB\tTITLE\tSTATUS")
			for _, j := range d.Jobs {
				fmt.Fprintf(out, "%s\t%s\t%s\n", j.ID, j.Title, j.Status)
			}
			fmt.Fprintf(out, "\nApplications\t%d\nDocuments\t%d\n", len(d.Applications), len(d.Documents))
			return nil
		}
		ranked, err := d.ScoreApplicants(jobID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "STUDENT\tACADEMIC\tCERTS\tEXPERIENCE\tRELEVANCE\tTOTAL\tQUALIFIED")
		for _, r := range ranked {
			s := r.Score
			name := r.Application.StudentName
			if name == "" {
				name = r.Application.StudentID
			}
			fmt.Fprintf(out, "%s\t%d\t%d\t%d\t%d\t%d\t%v\n", name,
				s.AcademicScore, s.CertificateScore, s.ExperienceScore, s.RelevanceScore, s.Total, s.Qualified)
		}

	case model.RoleStudent:
		d := dashboard.NewStudent(sess, docs, confirm)
		if err := d.Load(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "TYPE\tTARGET\tSTATUS")
		for _, a := range d.ApplicationsView() {
			target := a.CourseName + " @ " + a.InstitutionName
			if a.Type == model.AppTypeJob {
				target = a.JobTitle + " @ " + a.Company
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", a.Type, target, a.Status)
		}
		unread := 0
		for _, n := range d.Notifications {
			if !n.Read {
				unread++
			}
		}
		fmt.Fprintf(out, "\nOpen jobs\t%d\nUnread notifications\t%d\n", len(d.Jobs), unread)

	default:
		return fmt.Errorf("unknown role %q", user.Role)
	}
	return nil
}

// stdinConfirmer asks y/N on the terminal
type stdinConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (c stdinConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N] ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
