package node

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirmDelete asks on in whether the database should be removed. Anything
// but Y or N is asked again.
func confirmDelete(in io.Reader) (bool, error) {
	reader := bufio.NewReader(in)
	log.Warn("This will delete the block database stored in your data directory. " +
		"Do you want to proceed? (Y/N)")
	for {
		fmt.Print(">> ")
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return false, err
		}
		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "Y":
			log.Warn("Deleting block database from data directory")
			return true, nil
		case "N":
			log.Info("Not deleting block database, the existing one will be used")
			return false, nil
		default:
			log.Errorf("Invalid option of %s chosen, enter Y/N", strings.TrimSpace(line))
		}
	}
}
