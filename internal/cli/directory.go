package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

func (c *Cli) runProjects(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("projects", flag.ContinueOnError)
	category := fs.String("category", core.FilterAll, "Category filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	projects := c.Directory.SearchProjects(ctx, strings.Join(fs.Args(), " "), *category)
	if len(projects) == 0 {
		c.IO.Println("No projects found")
		return nil
	}

	tw := tabwriter.NewWriter(c.writer(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tWEBSITE")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, p.WebsiteURL)
	}
	return tw.Flush()
}

func (c *Cli) runPeople(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("people", flag.ContinueOnError)
	role := fs.String("role", core.FilterAll, "Role filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	people := c.Directory.SearchPeople(ctx, strings.Join(fs.Args(), " "), *role)
	if len(people) == 0 {
		c.IO.Println("No people found")
		return nil
	}

	tw := tabwriter.NewWriter(c.writer(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tROLE\tLOCATION\tSKILLS")
	for _, p := range people {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Role, p.Location, strings.Join(p.Skills, ", "))
	}
	return tw.Flush()
}

func (c *Cli) runStats(ctx context.Context) error {
	st := c.Directory.Stats(ctx)
	c.IO.Printf("Projects:  %d\n", st.TotalProjects)
	c.IO.Printf("People:    %d\n", st.TotalPeople)
	c.IO.Printf("Builders:  %d\n", st.TotalBuilders)
	c.IO.Printf("Creators:  %d\n", st.TotalCreators)
	c.IO.Printf("Investors: %d\n", st.TotalInvestors)
	c.IO.Printf("Degens:    %d\n", st.TotalDegens)

	c.IO.Println("")
	c.IO.Println("Projects by category:")
	for _, s := range c.Directory.ProjectsByCategory(ctx).Shares {
		c.IO.Printf("  %-16s %3d  %s%%\n", s.Key, s.Count, s.Percent.StringFixed(2))
	}
	c.IO.Println("")
	c.IO.Println("People by role:")
	for _, s := range c.Directory.PeopleByRole(ctx).Shares {
		c.IO.Printf("  %-20s %3d  %s%%\n", s.Key, s.Count, s.Percent.StringFixed(2))
	}
	return nil
}

func (c *Cli) runProfile(ctx context.Context, args []string) error {
	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	name := fs.String("name", "", "Display name")
	role := fs.String("role", "", "Community role")
	bio := fs.String("bio", "", "Short bio")
	location := fs.String("location", "", "City")
	skills := fs.String("skills", "", "Comma separated skills")
	avatar := fs.String("avatar", "", "Avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	person := core.Person{
		WalletAddress: session.User.WalletAddress,
		Name:          *name,
		Role:          core.PersonRole(*role),
		Bio:           *bio,
		Location:      *location,
		AvatarURL:     *avatar,
	}
	for _, s := range strings.Split(*skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			person.Skills = append(person.Skills, s)
		}
	}

	created, err := c.Directory.CreateProfile(ctx, person)
	if err != nil {
		return err
	}
	c.IO.Printf("✓ Profile created: %s\n", created.ID)
	return nil
}

func (c *Cli) runAvatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: web3tr avatar FILE")
	}
	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	url, err := c.Avatars.Upload(ctx, session.User.WalletAddress, filepath.Base(args[0]), http.DetectContentType(data), data)
	if errors.Is(err, core.ErrAvatarTooLarge) || errors.Is(err, core.ErrAvatarType) {
		return errors.New(core.UserMessage(err))
	}
	if err != nil {
		return err
	}
	c.IO.Printf("✓ Avatar uploaded: %s\n", url)
	return nil
}

// writer adapts IO for tabular output.
func (c *Cli) writer() *ioWriter {
	return &ioWriter{io: c.IO}
}

type ioWriter struct {
	io IO
}

func (w *ioWriter) Write(p []byte) (int, error) {
	w.io.Printf("%s", p)
	return len(p), nil
}
