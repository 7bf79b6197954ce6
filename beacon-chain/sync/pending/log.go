package pending

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "pending")
