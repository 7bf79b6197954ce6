package churn

import "github.com/sirupsen/logrus"

var log = logrus.WithField("prefix", "pool-churn")
