package attestations

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "pool")
