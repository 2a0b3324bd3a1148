/*
Package utils contains decorators shared by every message path: savepoints
for atomic execution, panic recovery, logging, action tags and metrics.
*/
package utils
