package simulator

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "simulator")
