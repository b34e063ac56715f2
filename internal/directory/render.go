package directory

import (
	"fmt"
	"io"
	"text/tabwriter"
)

const Title = "Solace Advocates"

var columns = []string{
	"First Name",
	"Last Name",
	"City",
	"Degree",
	"Specialties",
	"Years of Experience",
	"Phone Number",
}

// Render writes the current display state as plain text.
func (v *View) Render(w io.Writer) error {
	return RenderSnapshot(w, v.Snapshot())
}

// RenderSnapshot writes s as a title, the search box and either the status
// message or a table with one specialty per line.
func RenderSnapshot(w io.Writer, s Snapshot) error {
	if _, err := fmt.Fprintf(w, "%s\n\nSearch: %s\n\n", Title, s.Term); err != nil {
		return err
	}
	switch s.State {
	case StateIdle:
		return nil
	case StateLoading, StateError:
		_, err := fmt.Fprintln(w, s.Message)
		return err
	}
	if s.Empty() {
		_, err := fmt.Fprintln(w, MessageEmpty)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, c := range columns {
		sep := "\t"
		if i == len(columns)-1 {
			sep = "\n"
		}
		fmt.Fprint(tw, c, sep)
	}
	for _, a := range s.Advocates {
		first := ""
		if len(a.Specialties) > 0 {
			first = a.Specialties[0]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.FirstName, a.LastName, a.City, a.Degree, first, a.YearsOfExperienceText(), a.PhoneNumberText())
		for _, sp := range a.Specialties[min(1, len(a.Specialties)):] {
			fmt.Fprintf(tw, "\t\t\t\t%s\t\t\n", sp)
		}
	}
	return tw.Flush()
}
