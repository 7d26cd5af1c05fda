/*
Command mcc computes Matthews correlation coefficient on ast542 results.

Matthews correlation coefficient is a statistic indicating how well
a classifier works.  Here, we are testing how successfully ast542
flags photometric outliers.  Compared to similar statistics, MCC
produces a meaningful measure even when the relative number of points
in the classes (outliers and inliers, for example) is greatly different.

  Usage: mcc [options] <in-class> <out-of-class> [threshold]
         mcc -t <truth-file> <listing> [threshold]
    -c=6: column containing outlier probability
    -t="": truth file of planted outliers
    -v=false: display version and copyright

Scoring whole curves

The command line arguments <in-class> and <out-of-class> are files
containing captured output of ast542.  Prepare these two files as
follows:

1.  Collect a set of light curves for which you know the outlier truth
of each curve.  That is, you must have curves which have been vetted
closely enough to tell if they are contaminated or not.  The lcgen
command generates such a set synthetically, planting outliers in some
curves and leaving others clean.

2.  Partition the curves into two sets, one of curves known to be
contaminated and the other of curves known to be clean.

3.  Create or edit your config file so that the outlier probability will
be output in a low-numbered column.  You probably want to make these
changes:

- Turn off headings.  mcc can usually ignore the headings, but there is
the strange case where it would try to interpret a number in the heading
as a probability.

- Turn off the chi2 column and the jitter model.  mcc has no need for
them.  It's best to keep the output as clean as possible, and fitting
fewer models runs faster.

- Turn off possibilities.  The trailing annotations only add clutter
here.

An example config file would look like this,

  noheadings
  nochi2
  noposs
  nojitter

4.  Run ast542 on the two curve sets, capturing an output file for each.
These output files become the ones you specify on the mcc command line.

5.  Run mcc on the two captured files.

The mcc -c option identifies the output column containing the outlier
probability.  The default is 6, corresponding to the minimized output
just described.  (To process the default output of ast542, you would
specify -c=10.)

Scoring single points

With the -t option mcc instead scores per-point predictions against a
truth file of planted outliers.  The truth file holds one "name index"
pair per line, as written by lcgen.  The listing holds "name index
probability" lines, as written by ast542 with the points keyword in its
config file.  A planted outlier the listing never mentions counts as
missed.

The optional threshold argument specifies the probability you use for
predicting if a point is an outlier or not.  The default is .5, meaning
that you interpret a probability of .5 or higher as a prediction that
the point is an outlier.

mcc allows probabilities containing a decimal point but it otherwise
ignores lines where it does not find a numeric probability in the
expected column.  This should allow it to accept not only output from
the current version of ast542, but also output of other versions or even
other programs.
*/
package main
