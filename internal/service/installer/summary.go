package installer

import (
	"strconv"

	"github.com/pterm/pterm"

	"github.com/oshokin/fivem-installer/internal/domain/platform"
	"github.com/oshokin/fivem-installer/internal/service/merger"
)

const serverDataFilename = "cfx-server-data.zip"

// printSummary shows where things are and how to start the server.
func (i *installer) printSummary(tag platform.Tag) {
	pterm.DefaultSection.WithWriter(i.out).Println("Setup complete!")

	rows := pterm.TableData{
		{"Platform", tag.String()},
		{"Directory", i.cfg.WorkDir},
		{"Port", strconv.Itoa(i.cfg.Server.Port) + " (TCP/UDP)"},
	}

	if i.cfg.TxAdmin {
		rows = append(rows, []string{"Configuration", "txAdmin"})
	} else {
		rows = append(rows,
			[]string{"Server name", i.cfg.Server.Name},
			[]string{"Resources", merger.ResourcesDir + "/"})
	}

	if i.cfg.MySQL.CreateDatabase {
		rows = append(rows, []string{"Database", i.cfg.MySQL.Database.Name})
	}

	_ = pterm.DefaultTable.WithWriter(i.out).WithData(rows).Render()

	pterm.Info.WithWriter(i.out).Println("To start the server, run:")
	pterm.DefaultBasicText.WithWriter(i.out).Println("  " + tag.Family().StartCommand())
}
