package shell

import (
	"embed"
	"errors"
	"io/fs"
	"strings"
)

//go:embed helptext/*.txt
var helptext embed.FS

func usage() (string, error) {
	dat, err := helptext.ReadFile("helptext/usage.txt")
	if err != nil {
		return "", err
	}
	return string(dat), nil
}

func usageTopic(topic string) (string, error) {
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if errors.Is(err, fs.ErrNotExist) {
		return "", errors.New("there is no help text for the topic " + topic)
	}
	if err != nil {
		return "", err
	}
	return string(dat), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	var text string
	var err error
	if len(cmd.args) == 0 {
		text, err = usage()
	} else {
		text, err = usageTopic(cmd.args[0])
	}
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimSuffix(text, "\n")), nil
}
